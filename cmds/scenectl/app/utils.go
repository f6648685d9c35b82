package app

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

// AddOutputFlag adds the output format flag (table, json, yaml).
func AddOutputFlag(flags *pflag.FlagSet, output *string) {
	flags.StringVarP(output, "output", "o", "", "output format (json, yaml)")
}

// OutputFormat normalizes and validates an output format.
func OutputFormat(output string) (string, error) {
	o := strings.ToLower(strings.TrimSpace(output))
	switch o {
	case "", "json", "yaml":
		return o, nil
	}
	return "", fmt.Errorf("unknown output format %q", output)
}

func PrintTable(w io.Writer, columns []string, rows [][]string) {
	max := make([]int, len(columns))
	for i, s := range columns {
		max[i] = len(s)
	}
	for _, cols := range rows {
		for i, s := range cols {
			if max[i] < len(s) {
				max[i] = len(s)
			}
		}
	}

	f := formatString(max)
	printLine(w, columns, f)
	for _, cols := range rows {
		printLine(w, cols, f)
	}
}

func printLine(w io.Writer, cols []string, msg string) {
	fmt.Fprintf(w, "%s\n", strings.TrimRight(fmt.Sprintf(msg, utils.TransformSlice(cols, func(s string) any { return s })...), " "))
}

func formatString(max []int) string {
	msg := ""
	for _, l := range max {
		msg += fmt.Sprintf("%%-%ds ", l)
	}
	return msg[:len(msg)-1]
}
