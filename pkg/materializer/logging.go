package materializer

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("scene/materializer", "metadata component materialization")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
