package styles

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/x/exp/charmtone"

	"cosdis/internal/ui/colorize"
)

func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }

// GetMarkdownRenderer returns a glamour TermRenderer for the info pane.
// Fenced nasm blocks are highlighted with the listing's chroma style.
func GetMarkdownRenderer(width int) *glamour.TermRenderer {
	r, _ := glamour.NewTermRenderer(
		glamour.WithStyles(GetMarkdownStyle()),
		glamour.WithWordWrap(width),
	)
	return r
}

// RenderMarkdown renders md at width, returning md unchanged on failure.
func RenderMarkdown(md string, width int) string {
	r := GetMarkdownRenderer(width)
	if r == nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}

// GetMarkdownStyle is a compact dark theme: a banner H1, plain H2 section
// titles and tables with thin rules for the summary.
func GetMarkdownStyle() ansi.StyleConfig {
	heading := func(prefix, hex string) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
			Prefix: prefix,
			Color:  stringPtr(hex),
			Bold:   boolPtr(true),
		}}
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(charmtone.Smoke.Hex())},
			Margin:         uintPtr(1),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n"},
		},
		H1: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
			Prefix:          " ",
			Suffix:          " ",
			Color:           stringPtr(charmtone.Zest.Hex()),
			BackgroundColor: stringPtr(charmtone.Charple.Hex()),
			Bold:            boolPtr(true),
		}},
		H2: heading("", charmtone.Malibu.Hex()),
		H3: heading("› ", charmtone.Guac.Hex()),
		Strong: ansi.StylePrimitive{
			Bold:  boolPtr(true),
			Color: stringPtr(charmtone.Cheeky.Hex()),
		},
		Emph: ansi.StylePrimitive{Italic: boolPtr(true)},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		List: ansi.StyleList{LevelIndent: 2},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: stringPtr(charmtone.Malibu.Hex())},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: stringPtr(charmtone.Squid.Hex())},
				Margin:         uintPtr(1),
			},
			Theme: colorize.CosmacDark.Name,
		},
		Table: ansi.StyleTable{
			StyleBlock:      ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{}},
			CenterSeparator: stringPtr("┼"),
			ColumnSeparator: stringPtr("│"),
			RowSeparator:    stringPtr("─"),
		},
		HorizontalRule: ansi.StylePrimitive{
			Color:  stringPtr(charmtone.Charcoal.Hex()),
			Format: "\n────────\n",
		},
	}
}
