package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"
)

type Types struct {
	cmd *cobra.Command

	mainopts *Options
	output   string
}

type TypeInfo struct {
	TypePath  string `json:"typePath"`
	ShortName string `json:"shortName"`
	Component bool   `json:"component"`
}

func NewTypes(opts *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types <options>",
		Short: "list registered component types",
	}

	c := &Types{
		cmd:      cmd,
		mainopts: opts,
	}
	c.cmd.RunE = func(cmd *cobra.Command, args []string) error { return c.Run(args) }
	flags := cmd.Flags()
	AddOutputFlag(flags, &c.output)
	return cmd
}

func (c *Types) Run(args []string) error {
	if len(args) != 0 {
		return fmt.Errorf("no arguments expected")
	}
	output, err := OutputFormat(c.output)
	if err != nil {
		return err
	}
	if err := c.mainopts.Setup(); err != nil {
		return err
	}
	cat, err := c.mainopts.Catalog()
	if err != nil {
		return err
	}

	var list []TypeInfo
	for _, d := range cat.Descriptors() {
		list = append(list, TypeInfo{TypePath: d.TypePath(), ShortName: d.ShortName(), Component: d.IsComponent()})
	}

	switch output {
	case "":
		var rows [][]string
		for _, t := range list {
			kind := "data"
			if t.Component {
				kind = "component"
			}
			rows = append(rows, []string{t.ShortName, kind, t.TypePath})
		}
		PrintTable(c.cmd.OutOrStdout(), []string{"NAME", "KIND", "TYPE PATH"}, rows)
	case "json":
		data, err := json.Marshal(list)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s\n", string(data))
	case "yaml":
		data, err := yaml.Marshal(list)
		if err != nil {
			return err
		}
		fmt.Fprintf(c.cmd.OutOrStdout(), "%s\n", string(data))
	}
	return nil
}
