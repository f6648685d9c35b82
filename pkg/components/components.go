package components

import (
	"github.com/mandelsoft/scenecomponents/pkg/catalog"
)

// Type paths of the components authored by the scene
// export tools.
const (
	PathAnimationInfo    = "bevy_gltf_blueprints::animation::AnimationInfo"
	PathAnimationInfos   = "bevy_gltf_blueprints::animation::AnimationInfos"
	PathAnimationMarkers = "bevy_gltf_blueprints::animation::AnimationMarkers"
	PathBlueprintAsset   = "bevy_gltf_blueprints::assets::BlueprintAsset"
	PathBlueprintAssets  = "bevy_gltf_blueprints::assets::BlueprintAssets"
	PathBlueprintName    = "bevy_gltf_blueprints::spawn_from_blueprints::BlueprintName"
	PathSpawnHere        = "bevy_gltf_blueprints::spawn_from_blueprints::SpawnHere"
	PathMaterialInfo     = "bevy_gltf_blueprints::materials::MaterialInfo"
)

// AnimationInfo describes the frame range of a named animation.
type AnimationInfo struct {
	Name               string
	FrameStart         float32
	FrameEnd           float32
	FramesLength       float32
	FrameStartOverride float32
	FrameEndOverride   float32
}

// AnimationInfos is attached to entities with animations.
type AnimationInfos struct {
	Animations []AnimationInfo
}

// Get returns the info for the given animation name.
func (a AnimationInfos) Get(name string) (AnimationInfo, bool) {
	for _, i := range a.Animations {
		if i.Name == name {
			return i, true
		}
	}
	return AnimationInfo{}, false
}

// AnimationMarkers maps animation names to the
// marker names per frame.
type AnimationMarkers map[string]map[uint32][]string

// Markers returns the markers of an animation at a frame.
func (m AnimationMarkers) Markers(animation string, frame uint32) []string {
	return m[animation][frame]
}

type BlueprintAsset struct {
	Name     string
	Path     string
	Type     string
	Internal bool
}

// BlueprintAssets lists the blueprints used by a scene.
type BlueprintAssets struct {
	Assets []BlueprintAsset
}

type BlueprintName string

// SpawnHere requests spawning the named blueprint at the
// location of the entity.
type SpawnHere struct{}

type MaterialInfo struct {
	Name   string
	Source string
}

type registration struct {
	path     string
	register func(c *catalog.Catalog, path string) (*catalog.Descriptor, error)
}

var registrations = []registration{
	{PathAnimationInfo, catalog.Register[AnimationInfo]},
	{PathAnimationInfos, catalog.RegisterComponent[AnimationInfos]},
	{PathAnimationMarkers, catalog.RegisterComponent[AnimationMarkers]},
	{PathBlueprintAsset, catalog.Register[BlueprintAsset]},
	{PathBlueprintAssets, catalog.RegisterComponent[BlueprintAssets]},
	{PathBlueprintName, catalog.RegisterComponent[BlueprintName]},
	{PathSpawnHere, catalog.RegisterComponent[SpawnHere]},
	{PathMaterialInfo, catalog.RegisterComponent[MaterialInfo]},
}

// Register registers the default scene component types.
func Register(c *catalog.Catalog) error {
	for _, r := range registrations {
		if _, err := r.register(c, r.path); err != nil {
			return err
		}
	}
	return nil
}

// NewCatalog provides a catalog with the well-known container
// types and the default scene components.
func NewCatalog() (*catalog.Catalog, error) {
	c := catalog.New()
	if err := c.EnsureRegistered(); err != nil {
		return nil, err
	}
	if err := Register(c); err != nil {
		return nil, err
	}
	return c, nil
}
