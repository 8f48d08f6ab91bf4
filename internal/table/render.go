package table

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	pretty "github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-runewidth"
)

// Render writes the table to w in a single write.
func Render(w io.Writer, style Style, headers []string, rows [][]string) error {
	out, err := Format(style, headers, rows)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

// Format returns the table as text, one line per row terminated by "\n".
// Columns whose values are all numeric are right aligned, the rest left aligned.
// Widths are measured in terminal cells so wide runes in server names line up.
func Format(style Style, headers []string, rows [][]string) (string, error) {
	l, ok := layouts[style]
	if !ok {
		return "", fmt.Errorf("unknown table style %q", style)
	}

	cols := len(headers)
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if cols == 0 {
		return "", nil
	}

	tw := pretty.NewWriter()
	tw.SetStyle(l.prettyStyle(style))
	tw.SuppressTrailingSpaces()

	withHeaders := hasHeaders(headers)
	if withHeaders {
		tw.AppendHeader(toRow(headers))
	}
	for _, r := range rows {
		tw.AppendRow(toRow(r))
	}
	tw.SetColumnConfigs(columnConfigs(l, headers, rows, cols, withHeaders))

	var out string
	if l.markdown {
		out = tw.RenderMarkdown()
	} else {
		out = tw.Render()
	}

	if l.openEnds {
		out = dropRules(out)
	}

	return out + "\n", nil
}

func hasHeaders(headers []string) bool {
	for _, h := range headers {
		if h != "" {
			return true
		}
	}

	return false
}

func toRow(cells []string) pretty.Row {
	r := make(pretty.Row, len(cells))
	for i, c := range cells {
		r[i] = c
	}

	return r
}

// columnConfigs pins alignment per column and reserves minPadding cells beyond the header width.
func columnConfigs(l layout, headers []string, rows [][]string, cols int, withHeaders bool) []pretty.ColumnConfig {
	configs := make([]pretty.ColumnConfig, cols)
	for c := range configs {
		align := text.AlignLeft
		switch {
		case l.center:
			align = text.AlignCenter
		case numericColumn(rows, c):
			align = text.AlignRight
		}

		configs[c] = pretty.ColumnConfig{
			Number:      c + 1,
			Align:       align,
			AlignHeader: align,
		}
		if withHeaders && c < len(headers) && l.minPadding > 0 {
			configs[c].WidthMin = runewidth.StringWidth(headers[c]) + l.minPadding
		}
	}

	return configs
}

func numericColumn(rows [][]string, c int) bool {
	numeric := false
	for _, r := range rows {
		if c >= len(r) || r[c] == "" {
			continue
		}
		if _, err := strconv.ParseFloat(r[c], 64); err != nil {
			return false
		}
		numeric = true
	}

	return numeric
}

// dropRules removes the top and bottom border lines of a rendered table.
func dropRules(out string) string {
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		return out
	}

	return strings.Join(lines[1:len(lines)-1], "\n")
}
