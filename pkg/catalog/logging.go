package catalog

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("scene/catalog", "runtime type catalog")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
