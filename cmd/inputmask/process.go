package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
	"go.uber.org/zap"

	"github.com/dshills/inputmask/internal/logger"
	"github.com/dshills/inputmask/internal/mask"
)

var errInvalidRecord = errors.New("invalid change record")

func newProcessCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Reconcile one edit against a mask",
		Long: `Process reads a JSON change record and prints the reconciled state.

Input:
  {"mask": "+7 (999) 999 99 99", "placeholder": "_",
   "definitions": {"#": "[0-9a-f]"},
   "current":  {"value": "+7 (495) 15 64 54", "start": 9, "end": 9},
   "previous": {"value": "+7 (495) 315 64 54", "start": 10, "end": 10}}

Output:
  {"value": "+7 (495) _15 64 54", "start": 9, "end": 9, "entered": ""}

A missing previous state is treated as the empty mask with the caret at 0,
the way an autofilled change is replayed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			data, err := io.ReadAll(in)
			if err != nil {
				return err
			}
			out, err := processRecord(data)
			if err != nil {
				return err
			}
			logger.L(cmd.Context()).Debug("record processed", zap.String("result", out))
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Read the record from a file instead of stdin")
	return cmd
}

func processRecord(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("%w: not JSON", errInvalidRecord)
	}
	rec := gjson.ParseBytes(data)
	if !rec.IsObject() {
		return "", fmt.Errorf("%w: expected an object", errInvalidRecord)
	}

	template := rec.Get("mask")
	if !template.Exists() {
		return "", fmt.Errorf("%w: missing mask", errInvalidRecord)
	}
	current := rec.Get("current")
	if !current.IsObject() {
		return "", fmt.Errorf("%w: missing current state", errInvalidRecord)
	}

	defs := make(map[string]string)
	rec.Get("definitions").ForEach(func(k, v gjson.Result) bool {
		defs[k.String()] = v.String()
		return true
	})

	m, err := compileMask(template.String(), rec.Get("placeholder").String(), defs)
	if err != nil {
		return "", err
	}

	prev := mask.State{Value: m.EmptyValue(), Selection: mask.Cursor(0)}
	if p := rec.Get("previous"); p.IsObject() {
		prev = recordState(p)
	}
	res := m.ProcessChange(recordState(current), prev)

	out := "{}"
	for _, kv := range []struct {
		key   string
		value any
	}{
		{"value", res.Value},
		{"start", res.Selection.Start},
		{"end", res.Selection.End},
		{"entered", res.Entered},
	} {
		if out, err = sjson.Set(out, kv.key, kv.value); err != nil {
			return "", err
		}
	}
	return out, nil
}

// recordState reads {value, start, end}. A missing end collapses the
// selection at start.
func recordState(r gjson.Result) mask.State {
	value := r.Get("value").String()
	start := int(r.Get("start").Int())
	end := start
	if e := r.Get("end"); e.Exists() {
		end = int(e.Int())
	}
	sel := mask.Selection{Start: start, End: end}.Normalize().Clamp(len([]rune(value)))
	return mask.State{Value: value, Selection: sel}
}
