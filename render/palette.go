package render

import "github.com/fatih/color"

type Color string

const (
	Orange Color = "orange"
	Yellow Color = "yellow"
	Green  Color = "green"
	Blue   Color = "blue"
	Purple Color = "purple"
	Red    Color = "red"
	Gray   Color = "gray"
)

// Style is the visual treatment of a section category.
type Style struct {
	Icon  string `json:"icon" yaml:"icon"`
	Color Color  `json:"color" yaml:"color"`
}

// Palette maps section categories to styles. Categories outside the palette,
// including types.DefaultCategory, get Default.
type Palette struct {
	Styles  []Style
	Default Style
}

func DefaultPalette() Palette {
	return Palette{
		Styles: []Style{
			{Icon: "🚀", Color: Orange},
			{Icon: "📝", Color: Yellow},
			{Icon: "📋", Color: Green},
			{Icon: "🤝", Color: Blue},
			{Icon: "💬", Color: Purple},
			{Icon: "✨", Color: Red},
		},
		Default: Style{Icon: "📄", Color: Gray},
	}
}

func (p Palette) Size() int {
	return len(p.Styles)
}

func (p Palette) Style(category int) Style {
	if category < 0 || category >= len(p.Styles) {
		return p.Default
	}
	return p.Styles[category]
}

var attributes = map[Color]color.Attribute{
	Orange: color.FgHiRed,
	Yellow: color.FgYellow,
	Green:  color.FgGreen,
	Blue:   color.FgBlue,
	Purple: color.FgMagenta,
	Red:    color.FgRed,
	Gray:   color.FgHiBlack,
}

// Attribute returns the terminal colour used for c.
func (c Color) Attribute() color.Attribute {
	if attr, ok := attributes[c]; ok {
		return attr
	}
	return color.Reset
}

// paint colours s unless disabled. color.NoColor still applies, so output
// to a non-terminal stays plain.
func paint(s string, c Color, enabled bool) string {
	painter := color.New(c.Attribute())
	if !enabled {
		painter.DisableColor()
	}
	return painter.Sprint(s)
}
