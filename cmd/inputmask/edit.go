package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/inputmask/internal/config"
	"github.com/dshills/inputmask/internal/form"
	"github.com/dshills/inputmask/internal/logger"
	"github.com/dshills/inputmask/internal/terminal"
)

var errNotTerminal = errors.New("edit needs an interactive terminal")

func newEditCmd(root *rootOptions) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "edit CONFIG",
		Short: "Fill in a form interactively",
		Long: `Edit opens the form described by CONFIG in the terminal. Tab and
Shift-Tab move between fields, Ctrl-C or Escape quits and prints the values
as JSON. With --watch, changes to CONFIG are applied while editing.

Logs go to --log-file only, so they never draw over the form.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isTerminal(cmd.InOrStdin()) {
				return errNotTerminal
			}

			path := args[0]
			doc, err := config.Load(path)
			if err != nil {
				return err
			}
			theme, err := terminal.NewTheme(doc.UI.Theme)
			if err != nil {
				return err
			}

			lg := zap.NewNop()
			if root.logFile != "" {
				lg = logger.L(cmd.Context())
			}

			screen, err := terminal.NewScreen()
			if err != nil {
				return err
			}
			f, err := form.New(doc, form.WithLogger(lg), form.WithScheduler(terminal.NewScheduler(screen)))
			if err != nil {
				screen.Fini()
				return err
			}
			defer f.Close()

			app := terminal.New(screen, f, theme, terminal.WithLogger(lg))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				go watchConfig(ctx, path, app, lg)
			}

			err = app.Run(ctx)
			screen.Fini()
			if err != nil {
				return err
			}

			out, err := valuesJSON(f.Entries())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload the form when CONFIG changes")
	return cmd
}

func watchConfig(ctx context.Context, path string, app *terminal.App, lg *zap.Logger) {
	err := config.Watch(ctx, path, func(doc *config.Document, err error) {
		if err != nil {
			_ = app.Notify(fmt.Sprintf("reload failed: %v", err))
			return
		}
		if err := app.Reload(doc); err != nil {
			lg.Warn("reload dropped", zap.Error(err))
		}
	})
	if err != nil {
		lg.Error("watch stopped", zap.Error(err))
		_ = app.Notify(fmt.Sprintf("watch stopped: %v", err))
	}
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

var pathEscaper = strings.NewReplacer(
	`.`, `\.`,
	`*`, `\*`,
	`?`, `\?`,
	`|`, `\|`,
	`#`, `\#`,
	`@`, `\@`,
)

// valuesJSON returns the field values as a JSON object in form order.
func valuesJSON(entries []*form.Entry) (string, error) {
	out := "{}"
	var err error
	for _, e := range entries {
		out, err = sjson.Set(out, pathEscaper.Replace(e.Spec.Name), e.Field.Value())
		if err != nil {
			return "", err
		}
	}
	return out, nil
}
