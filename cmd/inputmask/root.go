package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/logger"
	"github.com/dshills/inputmask/internal/mask"
)

type rootOptions struct {
	debug    bool
	logLevel string
	logFile  string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "inputmask",
		Short: "Format and edit values through input masks",
		Long: `inputmask applies positional input masks such as "+7 (999) 999 99 99"
to values, single edits, and interactive terminal forms.

Mask tokens: 9 digit, a letter, * letter or digit, \ escapes the next
character. Everything else is a literal.

Examples:
  inputmask format -m "99/99/9999" -p _ 01022024
  echo '{"mask":"99-99","current":{"value":"1","start":1}}' | inputmask process
  inputmask check form.toml
  inputmask edit form.toml --watch`,
		SilenceUsage:      true,
		CompletionOptions: cobra.CompletionOptions{DisableDefaultCmd: true},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var paths []string
			if opts.logFile != "" {
				paths = append(paths, opts.logFile)
			}
			l, err := logger.New(opts.debug, opts.logLevel, paths...)
			if err != nil {
				return err
			}
			zap.ReplaceGlobals(l)
			cmd.SetContext(logger.NewContext(cmd.Context(), l))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.L(cmd.Context()).Sync()
		},
	}

	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Write logs to this file instead of stderr")

	cmd.AddCommand(
		newFormatCmd(),
		newProcessCmd(),
		newCheckCmd(),
		newEditCmd(opts),
		newVersionCmd(),
	)
	return cmd
}

// compileMask parses template with an optional placeholder and custom
// token definitions.
func compileMask(template, placeholder string, defs map[string]string) (*mask.Mask, error) {
	opts := []mask.Option{mask.WithPlaceholder(placeholder)}
	if len(defs) > 0 {
		parsed, err := mask.ParseDefinitions(defs)
		if err != nil {
			return nil, err
		}
		opts = append(opts, mask.WithDefinitions(parsed))
	}
	return mask.Parse(template, opts...)
}
