package app

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/pipeline"
	"github.com/mandelsoft/scenecomponents/pkg/scene"
	"github.com/mandelsoft/scenecomponents/pkg/snapshot"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

type Sweep struct {
	cmd *cobra.Command

	mainopts    *Options
	output      string
	snapshot    string
	variables   []string
	environment bool
}

func NewSweep(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep <options> {<scene file>}",
		Short: "import scenes and materialize node metadata",
		Long: `
The given scene files are imported one after the other into a
common world. After every import the metadata of the newly
imported nodes is materialized into components.
`,
	}

	c := &Sweep{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	AddOutputFlag(flags, &c.output)
	flags.StringVarP(&c.snapshot, "snapshot", "s", "", "snapshot folder")
	flags.StringArrayVarP(&c.variables, "env", "e", nil, "scene variable (<name>=<value>)")
	flags.BoolVarP(&c.environment, "environment", "E", false, "substitute process environment variables in scene files")
	return cmd
}

func (c *Sweep) options() ([]scene.Option, error) {
	var opts []scene.Option
	if c.environment {
		opts = append(opts, scene.WithEnvironment())
	}
	if len(c.variables) > 0 {
		vars := map[string]string{}
		for _, v := range c.variables {
			name, value, ok := strings.Cut(v, "=")
			if !ok || name == "" {
				return nil, fmt.Errorf("invalid variable setting %q", v)
			}
			vars[name] = value
		}
		opts = append(opts, scene.WithVariables(vars))
	}
	return opts, nil
}

func (c *Sweep) Run(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("at least one scene file required")
	}
	output, err := OutputFormat(c.output)
	if err != nil {
		return err
	}
	if err := c.mainopts.Setup(); err != nil {
		return err
	}
	sopts, err := c.options()
	if err != nil {
		return err
	}
	cat, err := c.mainopts.Catalog()
	if err != nil {
		return err
	}

	w := ecs.NewWorld()
	p := pipeline.New(cat, w, pipeline.WithWorkers(c.mainopts.workers), pipeline.WithLogContext(c.mainopts.lctx))

	for _, f := range args {
		s, err := scene.Load(c.mainopts.fs, f, sopts...)
		if err != nil {
			return err
		}
		s.Spawn(w)
		r, err := p.Sweep()
		if err != nil {
			return err
		}
		for _, e := range r.Skipped {
			fmt.Fprintf(c.cmd.ErrOrStderr(), "warning: %s: %s\n", f, e)
		}
		if output == "" {
			fmt.Fprintf(c.cmd.OutOrStdout(), "%s: %s\n", f, r)
		}
	}

	records, err := snapshot.Take(w, cat)
	if err != nil {
		return err
	}
	if c.snapshot != "" {
		store, err := snapshot.New(c.snapshot, c.mainopts.fs)
		if err != nil {
			return err
		}
		if err := store.Write(records); err != nil {
			return err
		}
		digest, err := snapshot.Digest(records)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.ErrOrStderr(), "snapshot %s: digest %s\n", c.snapshot, digest)
	}

	switch output {
	case "":
		PrintTable(c.cmd.OutOrStdout(), []string{"ENTITY", "NAME", "PARENT", "COMPONENTS"}, utils.TransformSlice(records, recordFields))
	case "json":
		data, err := json.Marshal(records)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s\n", string(data))
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s\n", string(data))
	}
	return nil
}

func recordFields(r *snapshot.Record) []string {
	parent := ""
	if r.Parent != nil {
		parent = r.Parent.String()
	}
	names := utils.TransformSlice(r.Components, func(c snapshot.Component) string { return catalog.ShortTypePath(c.Type) })
	return []string{r.Entity.String(), r.Name, parent, strings.Join(names, ",")}
}
