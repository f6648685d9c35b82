package pipeline

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("scene/pipeline", "component materialization sweeps")
