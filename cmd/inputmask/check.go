package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/inputmask/internal/config"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check CONFIG",
		Short: "Validate a form definition",
		Long: `Check loads a TOML, YAML or JSON form definition, applies the
INPUTMASK_* environment overlay, compiles every mask and prints each field's
empty value along with any warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := config.Load(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, spec := range doc.Fields {
				m, err := spec.Compile()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%-16s %q\n", spec.Name, m.EmptyValue())
			}
			for _, w := range doc.Warnings() {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			fmt.Fprintf(out, "%s: %d fields ok\n", args[0], len(doc.Fields))
			return nil
		},
	}
}
