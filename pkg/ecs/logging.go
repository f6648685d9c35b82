package ecs

import (
	"github.com/mandelsoft/logging"
)

var REALM = logging.DefineRealm("scene/ecs", "entity component store")

var log = logging.DynamicLogger(logging.DefaultContext(), REALM)
