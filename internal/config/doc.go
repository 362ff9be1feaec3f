// Package config loads form definitions for masked fields.
//
// A form definition lists fields (name, label, mask, placeholder and
// display options) plus UI settings. Settings are resolved in layers,
// higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← INPUTMASK_<FIELD>_MASK, ...
//	├─────────────────────────────┤
//	│  2. Form Definition File    │  ← .toml, .yaml/.yml, .json
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	doc, err := config.Load("form.toml")
//	if err != nil {
//	    return err
//	}
//	for _, w := range doc.Warnings() {
//	    log.Println(w)
//	}
//
// Invalid masks, placeholders and colors are configuration errors and
// fail Load with a *ValidationError naming the field. A maxLength on a
// masked field is only a warning.
//
// # Live Reload
//
// Watch reloads the document whenever the file is written:
//
//	err := config.Watch(ctx, "form.toml", func(doc *config.Document, err error) {
//	    ...
//	})
package config
