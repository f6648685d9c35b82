package snapshot

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("scene/snapshot", "world snapshots")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
