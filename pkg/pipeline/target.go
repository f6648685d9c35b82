package pipeline

import (
	"strings"

	"github.com/mandelsoft/logging"

	"github.com/mandelsoft/scenecomponents/pkg/ecs"
)

// IsRedirectName reports whether the metadata of a node with
// this name describes its structural parent. Authoring tools
// attach such metadata to helper nodes.
func IsRedirectName(name string) bool {
	return strings.Contains(name, "components") || strings.HasSuffix(name, "_pa")
}

// ResolveTarget determines the entity the materialized entries of
// a node are attached to. A node without parent keeps its entries.
func ResolveTarget(log logging.Logger, w *ecs.World, node ecs.Entity) ecs.Entity {
	name := ecs.NameOf(w, node)
	if !IsRedirectName(name) {
		return node
	}
	parent, ok := ecs.ParentOf(w, node)
	if !ok {
		log.Warn("node {{node}} ({{name}}) has no parent, keeping its components", "node", node, "name", name)
		return node
	}
	log.Debug("redirecting components of {{name}} to parent {{parent}}", "name", name, "parent", parent)
	return parent
}
