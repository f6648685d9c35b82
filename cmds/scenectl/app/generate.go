package app

import (
	"fmt"
	"time"

	"github.com/goombaio/namegenerator"
	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/components"
	"github.com/mandelsoft/scenecomponents/pkg/materializer"
	"github.com/mandelsoft/scenecomponents/pkg/notation"
	"github.com/mandelsoft/scenecomponents/pkg/scene"
)

type Generate struct {
	cmd *cobra.Command

	mainopts *Options
	nodes    int
	seed     int64
	file     string
}

func NewGenerate(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <options>",
		Short: "generate a demo scene description",
	}

	c := &Generate{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	flags.IntVarP(&c.nodes, "nodes", "n", 3, "number of blueprint nodes")
	flags.Int64Var(&c.seed, "seed", 0, "random seed (default: current time)")
	flags.StringVarP(&c.file, "file", "f", "", "output file")
	return cmd
}

func (c *Generate) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	if c.nodes < 0 {
		return fmt.Errorf("invalid number of nodes %d", c.nodes)
	}
	seed := c.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	s, err := GenerateScene(namegenerator.NewNameGenerator(seed), c.nodes)
	if err != nil {
		return err
	}

	if c.file != "" {
		if err := s.Save(c.mainopts.fs, c.file); err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "scene %s with %d nodes written to %s\n", s.Name, s.Count(), c.file)
		return nil
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.cmd.OutOrStdout(), "%s", string(data))
	return nil
}

// GenerateScene creates a scene with blueprint nodes, each with a
// helper child carrying animation infos for its parent, and a floor.
func GenerateScene(gen namegenerator.Generator, nodes int) (*scene.Scene, error) {
	s := &scene.Scene{Name: gen.Generate()}

	for i := 0; i < nodes; i++ {
		name := gen.Generate()
		anim, err := catalog.EncodeValue(components.AnimationInfos{
			Animations: []components.AnimationInfo{
				{Name: "idle", FrameStart: 1, FrameEnd: float32(10 + i), FramesLength: float32(9 + i), FrameStartOverride: 1, FrameEndOverride: float32(10 + i)},
			},
		})
		if err != nil {
			return nil, err
		}
		nested := extras(components.PathAnimationInfos, anim.String())

		s.Nodes = append(s.Nodes, &scene.Node{
			Name:   name,
			Extras: extras("BlueprintName", name, "SpawnHere", "()"),
			Children: []*scene.Node{
				{Name: name + "_components", Extras: extras(materializer.NestedKey, nested)},
				{Name: name + "_mesh"},
			},
		})
	}

	material, err := catalog.EncodeValue(components.MaterialInfo{Name: "Ground", Source: "materials_library.glb"})
	if err != nil {
		return nil, err
	}
	s.Nodes = append(s.Nodes, &scene.Node{
		Name:   "floor",
		Extras: extras(materializer.TypePrefix+"materialInfo", material.String()),
	})
	return s, nil
}

// extras composes a metadata blob from name/value pairs.
func extras(pairs ...string) string {
	m := notation.NewMap()
	for i := 0; i+1 < len(pairs); i += 2 {
		m.Entries = append(m.Entries, notation.Entry{Key: notation.NewString(pairs[i]), Value: notation.NewString(pairs[i+1])})
	}
	return m.String()
}
