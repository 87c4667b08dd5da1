package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/spf13/cobra"

	"cosdis/internal/cosdis/styles"
	"cosdis/internal/cosmac"
)

const cellWidth = 6

// opcodeCell is one entry of the opcode map.
type opcodeCell struct {
	Mnemonic string
	Flow     cosmac.Flow
	Length   uint16
}

// opcodeMap decodes every opcode of the primary table, or of the 0x68
// page when page is set, and returns them in row-major order.
func opcodeMap(dec *cosmac.Decoder, page bool) [16][16]opcodeCell {
	var grid [16][16]opcodeCell
	for op := 0; op < 256; op++ {
		code := cosmac.Bytes{byte(op), 0, 0, 0}
		if page {
			code = cosmac.Bytes{0x68, byte(op), 0, 0, 0}
		}
		text, res := dec.Decode(code, 0)
		mnemonic, _, _ := strings.Cut(text, " ")
		grid[op>>4][op&0xf] = opcodeCell{Mnemonic: mnemonic, Flow: res.Flow, Length: res.Length}
	}
	return grid
}

func cellStyle(c opcodeCell) lipgloss.Style {
	base := lipgloss.NewStyle().Width(cellWidth)
	switch {
	case c.Mnemonic == "illegal":
		return base.Inherit(styles.Illegal)
	case c.Flow == cosmac.FlowStepOver:
		return base.Inherit(styles.StepOver)
	case c.Flow == cosmac.FlowStepOut:
		return base.Inherit(styles.StepOut)
	}
	return base
}

func writeOpcodeMap(w io.Writer, dec *cosmac.Decoder, page, color bool) error {
	grid := opcodeMap(dec, page)

	title := fmt.Sprintf("%s opcode map", dec.Variant())
	prefix := ""
	if page {
		title = fmt.Sprintf("%s opcode map, page 68", dec.Variant())
		prefix = "68"
	}
	if color {
		title = styles.Header.Render(title)
	}
	if _, err := fmt.Fprintf(w, "%s\n\n", title); err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s", len(prefix)+4, "")
	for col := 0; col < 16; col++ {
		fmt.Fprintf(&b, "%-*s", cellWidth, fmt.Sprintf("x%X", col))
	}
	header := strings.TrimRight(b.String(), " ")
	if color {
		header = styles.Address.Render(header)
	}
	if _, err := fmt.Fprintln(w, header); err != nil {
		return err
	}

	for row := 0; row < 16; row++ {
		label := fmt.Sprintf("%s%Xx  ", prefix, row)
		cells := make([]string, 0, 17)
		if color {
			cells = append(cells, styles.Address.Render(label))
		} else {
			cells = append(cells, label)
		}
		for col := 0; col < 16; col++ {
			c := grid[row][col]
			if color {
				cells = append(cells, cellStyle(c).Render(c.Mnemonic))
			} else {
				cells = append(cells, fmt.Sprintf("%-*s", cellWidth, c.Mnemonic))
			}
		}
		line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the opcode map of a variant",
	Example: `
# CDP1802 opcode map
cosdis table

# CDP1805 extended opcodes behind 68
cosdis table -V 1805 --page
  `,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("variant")
		if v := os.Getenv("COSDIS_VARIANT"); v != "" && !cmd.Flags().Changed("variant") {
			name = v
		}
		v, err := cosmac.ParseVariant(name)
		if err != nil {
			return err
		}
		page, _ := cmd.Flags().GetBool("page")
		dec := cosmac.New(v)
		if page && !dec.Extended() {
			return fmt.Errorf("%s has no extended opcode page", v)
		}
		noColor, _ := cmd.Flags().GetBool("no-color")
		color := !noColor && os.Getenv("COSDIS_NO_COLOR") == "" && isTerminal(cmd.OutOrStdout())
		return writeOpcodeMap(cmd.OutOrStdout(), dec, page, color)
	},
}

func init() {
	tableCmd.Flags().StringP("variant", "V", "1802", "COSMAC variant: 1801, 1802, 1804, 1805 or 1806")
	tableCmd.Flags().BoolP("page", "p", false, "Show the 68 page (CDP1805/1806)")
	tableCmd.Flags().Bool("no-color", false, "Disable colors")
}
