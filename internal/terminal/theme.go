package terminal

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dshills/inputmask/internal/config"
)

// Theme holds the styles used to draw a form.
type Theme struct {
	Label       tcell.Style
	Focus       tcell.Style
	Field       tcell.Style
	Placeholder tcell.Style
	Selection   tcell.Style
	Status      tcell.Style
}

// NewTheme converts the hex colors of a form definition into styles. The
// selection background is the placeholder color blended halfway toward
// the focus color.
func NewTheme(t config.Theme) (Theme, error) {
	label, err := parseColor(t.Label)
	if err != nil {
		return Theme{}, err
	}
	fld, err := parseColor(t.Field)
	if err != nil {
		return Theme{}, err
	}
	placeholder, err := parseColor(t.Placeholder)
	if err != nil {
		return Theme{}, err
	}
	focus, err := parseColor(t.Focus)
	if err != nil {
		return Theme{}, err
	}

	selection := placeholder.BlendLab(focus, 0.5).Clamped()
	return Theme{
		Label:       tcell.StyleDefault.Foreground(toTcell(label)),
		Focus:       tcell.StyleDefault.Foreground(toTcell(focus)).Bold(true),
		Field:       tcell.StyleDefault.Foreground(toTcell(fld)),
		Placeholder: tcell.StyleDefault.Foreground(toTcell(placeholder)),
		Selection:   tcell.StyleDefault.Foreground(toTcell(fld)).Background(toTcell(selection)),
		Status:      tcell.StyleDefault.Foreground(toTcell(placeholder)).Italic(true),
	}, nil
}

func parseColor(hex string) (colorful.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
