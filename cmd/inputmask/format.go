package main

import (
	"bufio"
	"fmt"

	"github.com/spf13/cobra"
)

func newFormatCmd() *cobra.Command {
	var (
		template    string
		placeholder string
		defs        map[string]string
	)

	cmd := &cobra.Command{
		Use:   "format [VALUE...]",
		Short: "Format values through a mask",
		Long: `Format prints each value in its canonical masked form. Values come from
the arguments, or one per line from stdin when no arguments are given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := compileMask(template, placeholder, defs)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) > 0 {
				for _, v := range args {
					fmt.Fprintln(out, m.Format(v))
				}
				return nil
			}

			sc := bufio.NewScanner(cmd.InOrStdin())
			for sc.Scan() {
				fmt.Fprintln(out, m.Format(sc.Text()))
			}
			return sc.Err()
		},
	}

	cmd.Flags().StringVarP(&template, "mask", "m", "", "Mask template")
	cmd.Flags().StringVarP(&placeholder, "placeholder", "p", "", "Placeholder character or full-length placeholder; empty for compact mode")
	cmd.Flags().StringToStringVarP(&defs, "define", "d", nil, "Custom token definitions, e.g. #=[0-9a-f]")
	_ = cmd.MarkFlagRequired("mask")
	return cmd
}
