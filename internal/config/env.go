package config

import (
	"strings"
	"unicode"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "INPUTMASK_"

// LookupFunc looks up an environment variable, like os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// EnvName returns the variable overriding setting of the named field,
// e.g. EnvName("card-number", "MASK") is INPUTMASK_CARD_NUMBER_MASK.
func EnvName(fieldName, setting string) string {
	return EnvPrefix + envToken(fieldName) + "_" + setting
}

// envToken upper-cases name and replaces anything but letters and digits
// with underscores.
func envToken(name string) string {
	return strings.Map(func(r rune) rune {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return unicode.ToUpper(r)
		}
		return '_'
	}, name)
}

// ApplyEnv overlays environment variables onto doc. Recognized variables:
//
//	INPUTMASK_LOG_LEVEL
//	INPUTMASK_PLATFORM
//	INPUTMASK_HOOK
//	INPUTMASK_<FIELD>_MASK
//	INPUTMASK_<FIELD>_PLACEHOLDER
//	INPUTMASK_<FIELD>_ALWAYS_SHOW_MASK
//	INPUTMASK_<FIELD>_DEFAULT_VALUE
//
// Empty values are treated as set, so INPUTMASK_<FIELD>_PLACEHOLDER=""
// selects compact mode.
func ApplyEnv(doc *Document, lookup LookupFunc) {
	if v, ok := lookup(EnvPrefix + "LOG_LEVEL"); ok {
		doc.Logging.Level = v
	}
	if v, ok := lookup(EnvPrefix + "PLATFORM"); ok {
		doc.UI.Platform = v
	}
	if v, ok := lookup(EnvPrefix + "HOOK"); ok {
		doc.UI.Hook = v
	}

	for i := range doc.Fields {
		f := &doc.Fields[i]
		if v, ok := lookup(EnvName(f.Name, "MASK")); ok {
			f.Mask = v
		}
		if v, ok := lookup(EnvName(f.Name, "PLACEHOLDER")); ok {
			f.MaskPlaceholder = &v
			f.MaskChar = nil
		}
		if v, ok := lookup(EnvName(f.Name, "ALWAYS_SHOW_MASK")); ok {
			if b, ok := parseBool(v); ok {
				f.AlwaysShowMask = b
			}
		}
		if v, ok := lookup(EnvName(f.Name, "DEFAULT_VALUE")); ok {
			f.DefaultValue = v
		}
	}
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}
