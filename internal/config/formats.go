package config

import (
	"errors"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var errInvalidJSON = errors.New("invalid JSON")

// Parse decodes a form definition and fills unset settings from Defaults.
// It does not apply the environment or validate.
func Parse(path string, format Format, data []byte) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = parseJSON(data, &doc)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, parseError(path, err)
	}

	doc.Path = path
	doc.applyDefaults(Defaults())
	return &doc, nil
}

func parseError(path string, err error) *ParseError {
	pe := &ParseError{Path: path, Err: err}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		pe.Line, pe.Column = derr.Position()
	}
	return pe
}

// applyDefaults fills empty settings from def.
func (d *Document) applyDefaults(def Document) {
	setDefault(&d.Logging.Level, def.Logging.Level)
	setDefault(&d.UI.Platform, def.UI.Platform)
	setDefault(&d.UI.Theme.Label, def.UI.Theme.Label)
	setDefault(&d.UI.Theme.Field, def.UI.Theme.Field)
	setDefault(&d.UI.Theme.Placeholder, def.UI.Theme.Placeholder)
	setDefault(&d.UI.Theme.Focus, def.UI.Theme.Focus)
}

func setDefault(v *string, def string) {
	if *v == "" {
		*v = def
	}
}

// parseJSON reads a JSON form definition. Keys match the TOML and YAML
// forms.
func parseJSON(data []byte, doc *Document) error {
	if !gjson.ValidBytes(data) {
		return errInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return fmt.Errorf("%w: document must be an object", errInvalidJSON)
	}

	doc.Logging.Level = root.Get("logging.level").String()

	ui := root.Get("ui")
	doc.UI.Hook = ui.Get("hook").String()
	doc.UI.Platform = ui.Get("platform").String()
	doc.UI.Theme = Theme{
		Label:       ui.Get("theme.label").String(),
		Field:       ui.Get("theme.field").String(),
		Placeholder: ui.Get("theme.placeholder").String(),
		Focus:       ui.Get("theme.focus").String(),
	}

	fields := root.Get("fields")
	if fields.Exists() && !fields.IsArray() {
		return fmt.Errorf("%w: fields must be an array", errInvalidJSON)
	}

	var ferr error
	fields.ForEach(func(_, v gjson.Result) bool {
		if !v.IsObject() {
			ferr = fmt.Errorf("%w: field %d must be an object", errInvalidJSON, len(doc.Fields))
			return false
		}
		doc.Fields = append(doc.Fields, jsonField(v))
		return true
	})
	return ferr
}

func jsonField(v gjson.Result) FieldSpec {
	spec := FieldSpec{
		Name:            v.Get("name").String(),
		Label:           v.Get("label").String(),
		Mask:            v.Get("mask").String(),
		MaskPlaceholder: optionalString(v.Get("maskPlaceholder")),
		MaskChar:        optionalString(v.Get("maskChar")),
		AlwaysShowMask:  v.Get("alwaysShowMask").Bool(),
		DefaultValue:    v.Get("defaultValue").String(),
		MaxLength:       int(v.Get("maxLength").Int()),
	}
	if defs := v.Get("definitions"); defs.IsObject() {
		spec.Definitions = make(map[string]string)
		defs.ForEach(func(k, p gjson.Result) bool {
			spec.Definitions[k.String()] = p.String()
			return true
		})
	}
	return spec
}

// optionalString distinguishes a missing or null key from "".
func optionalString(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	s := r.String()
	return &s
}
