package scene

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("scene/scene", "scene description import")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
