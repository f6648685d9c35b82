package app

import (
	"fmt"
	"os"
	"strconv"

	"github.com/mandelsoft/logging"
	"github.com/mandelsoft/vfs/pkg/osfs"
	"github.com/mandelsoft/vfs/pkg/vfs"
	"github.com/spf13/cobra"

	"github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/components"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

var REALM = logging.DefineRealm("scene/scenectl", "scene component command line tool")

const (
	ENV_LOG_LEVEL = "SCENECTL_LOG_LEVEL"
	ENV_WORKERS   = "SCENECTL_WORKERS"
)

type Options struct {
	fs      vfs.FileSystem
	level   string
	workers int
	lctx    logging.Context
}

// Setup configures the logging context according
// to the selected log level.
func (o *Options) Setup() error {
	if o.lctx == nil {
		l, err := logging.ParseLevel(o.level)
		if err != nil {
			return fmt.Errorf("invalid log level %q", o.level)
		}
		o.lctx = logging.DefaultContext()
		o.lctx.AddRule(logging.NewConditionRule(l, logging.NewRealmPrefix("scene")))
	}
	return nil
}

func (o *Options) Catalog() (*catalog.Catalog, error) {
	return components.NewCatalog()
}

func New(fss ...vfs.FileSystem) *cobra.Command {
	opts := &Options{
		fs:      utils.OptionalDefaulted(vfs.FileSystem(osfs.OsFs), fss...),
		level:   "info",
		workers: 1,
	}

	if l := os.Getenv(ENV_LOG_LEVEL); l != "" {
		opts.level = l
	}
	if w := os.Getenv(ENV_WORKERS); w != "" {
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			opts.workers = n
		}
	}

	maincmd := &cobra.Command{
		Use:   "scenectl <options> <cmd> <args>",
		Short: "materialize scene metadata",
		Long: `
This command can be used to import scene descriptions and
materialize the metadata of their nodes into typed components.
`,
		Run:              nil,
		TraverseChildren: true,
		SilenceUsage:     true,
	}

	flags := maincmd.Flags()

	flags.StringVarP(&opts.level, "log-level", "L", opts.level, "log level")
	flags.IntVarP(&opts.workers, "workers", "w", opts.workers, "number of materialization workers")

	maincmd.AddCommand(NewSweep(opts))
	maincmd.AddCommand(NewTypes(opts))
	maincmd.AddCommand(NewGenerate(opts))
	return maincmd
}
