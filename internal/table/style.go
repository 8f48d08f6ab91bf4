// Package table renders row-oriented data as a plain text table in one of several styles.
package table

import (
	"fmt"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"
)

// Style selects the table layout.
type Style string

// Supported styles.
const (
	Plain     Style = "plain"
	Simple    Style = "simple"
	GitHub    Style = "github"
	Grid      Style = "grid"
	FancyGrid Style = "fancy_grid"
	Pipe      Style = "pipe"
	Orgtbl    Style = "orgtbl"
	Presto    Style = "presto"
	Pretty    Style = "pretty"
	PSQL      Style = "psql"
	RST       Style = "rst"
)

// layout is the go-pretty configuration behind a style name.
type layout struct {
	box        pretty.BoxStyle
	options    pretty.Options
	minPadding int
	center     bool
	// markdown renders through RenderMarkdown, which carries column alignment in the rule
	markdown bool
	// openEnds keeps the side borders but drops the top and bottom rules
	openEnds bool
}

var (
	spaced = pretty.BoxStyle{MiddleVertical: "  ", MiddleSeparator: "  ", MiddleHorizontal: "-"}

	ascii = pretty.BoxStyle{
		TopLeft: "+", TopSeparator: "+", TopRight: "+",
		LeftSeparator: "+", MiddleSeparator: "+", RightSeparator: "+",
		BottomLeft: "+", BottomSeparator: "+", BottomRight: "+",
		Left: "|", MiddleVertical: "|", Right: "|",
		MiddleHorizontal: "-",
		PaddingLeft: " ", PaddingRight: " ",
	}

	piped = pretty.BoxStyle{
		LeftSeparator: "|", MiddleSeparator: "|", RightSeparator: "|",
		Left: "|", MiddleVertical: "|", Right: "|",
		MiddleHorizontal: "-",
		PaddingLeft: " ", PaddingRight: " ",
	}

	fancy = pretty.BoxStyle{
		TopLeft: "╒", TopSeparator: "╤", TopRight: "╕",
		LeftSeparator: "╞", MiddleSeparator: "╪", RightSeparator: "╡",
		BottomLeft: "╘", BottomSeparator: "╧", BottomRight: "╛",
		Left: "│", MiddleVertical: "│", Right: "│",
		MiddleHorizontal: "═",
		PaddingLeft: " ", PaddingRight: " ",
	}

	framed   = pretty.Options{DrawBorder: true, SeparateColumns: true, SeparateHeader: true}
	unframed = pretty.Options{SeparateColumns: true, SeparateHeader: true}
)

var layouts = map[Style]layout{
	Plain: {
		box:        spaced,
		options:    pretty.Options{SeparateColumns: true},
		minPadding: 2,
	},
	Simple: {
		box:        spaced,
		options:    unframed,
		minPadding: 2,
	},
	GitHub: {
		box:        piped,
		options:    framed,
		minPadding: 2,
		openEnds:   true,
	},
	Grid: {
		box:        ascii,
		options:    pretty.Options{DrawBorder: true, SeparateColumns: true, SeparateHeader: true, SeparateRows: true},
		minPadding: 2,
	},
	FancyGrid: {
		box:        fancy,
		options:    pretty.Options{DrawBorder: true, SeparateColumns: true, SeparateHeader: true, SeparateRows: true},
		minPadding: 2,
	},
	Pipe: {
		markdown: true,
	},
	Orgtbl: {
		box:        withSeparator(piped, "+"),
		options:    framed,
		minPadding: 2,
		openEnds:   true,
	},
	Presto: {
		box: pretty.BoxStyle{
			MiddleVertical: "|", MiddleSeparator: "+", MiddleHorizontal: "-",
			PaddingLeft: " ", PaddingRight: " ",
		},
		options:    unframed,
		minPadding: 2,
	},
	Pretty: {
		box:     ascii,
		options: framed,
		center:  true,
	},
	PSQL: {
		box:        withSides(ascii, "|"),
		options:    framed,
		minPadding: 2,
	},
	RST: {
		box: pretty.BoxStyle{
			TopSeparator: "  ", MiddleSeparator: "  ", BottomSeparator: "  ",
			MiddleVertical: "  ", MiddleHorizontal: "=",
		},
		options:    framed,
		minPadding: 2,
	},
}

func withSeparator(b pretty.BoxStyle, sep string) pretty.BoxStyle {
	b.MiddleSeparator = sep
	return b
}

// withSides sets the glyph where an inner rule meets the side borders.
func withSides(b pretty.BoxStyle, side string) pretty.BoxStyle {
	b.LeftSeparator, b.RightSeparator = side, side
	return b
}

// prettyStyle wraps the box and options without any of go-pretty's default casing or colors.
func (l layout) prettyStyle(name Style) pretty.Style {
	return pretty.Style{
		Name:    string(name),
		Box:     l.box,
		Options: l.options,
	}
}

// Styles lists every supported style in display order.
func Styles() []Style {
	return []Style{Plain, Simple, GitHub, Grid, FancyGrid, Pipe, Orgtbl, Presto, Pretty, PSQL, RST}
}

// ParseStyle validates a style name.
func ParseStyle(name string) (Style, error) {
	s := Style(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := layouts[s]; !ok {
		return "", fmt.Errorf("unknown table style %q", name)
	}

	return s, nil
}

// UnmarshalFlag lets a Style be used directly as a go-flags option.
func (s *Style) UnmarshalFlag(value string) error {
	style, err := ParseStyle(value)
	if err != nil {
		return err
	}
	*s = style

	return nil
}
