package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cosdis/internal/cosmac"
)

// Config represents configuration for the cosdis tool
type Config struct {
	Variant     string `json:"variant" jsonschema:"title=Variant,description=COSMAC part number (1801 1802 1804 1805 1806),default=1802"`
	Base        string `json:"base" jsonschema:"title=Base Address,description=Load address of the image in hex,default=0000"`
	Start       string `json:"start,omitempty" jsonschema:"title=Start Address,description=First address to disassemble in hex; defaults to the base address"`
	Count       int    `json:"count,omitempty" jsonschema:"title=Instruction Count,description=Maximum number of instructions; 0 lists the whole image"`
	UntilReturn bool   `json:"untilReturn" jsonschema:"title=Until Return,description=Stop after the first RET or DIS"`
	NoColor     bool   `json:"noColor" jsonschema:"title=No Color,description=Disable syntax highlighting"`
	JSON        bool   `json:"json" jsonschema:"title=JSON,description=Emit the listing as JSON"`
	Debug       bool   `json:"debug" jsonschema:"title=Debug,description=Enable debug logging"`
}

// settings is a Config with addresses and the variant parsed.
type settings struct {
	variant     cosmac.Variant
	base        uint16
	start       uint16
	count       int
	untilReturn bool
}

func (c Config) resolve() (settings, error) {
	var s settings
	var err error

	if s.variant, err = cosmac.ParseVariant(c.Variant); err != nil {
		return s, err
	}
	if s.base, err = parseAddress(c.Base); err != nil {
		return s, fmt.Errorf("base: %w", err)
	}
	s.start = s.base
	if c.Start != "" {
		if s.start, err = parseAddress(c.Start); err != nil {
			return s, fmt.Errorf("start: %w", err)
		}
	}
	if c.Count < 0 {
		return s, fmt.Errorf("count must not be negative: %d", c.Count)
	}
	s.count = c.Count
	s.untilReturn = c.UntilReturn
	return s, nil
}

// parseAddress reads a 16-bit hex address written as 8000, 0x8000, $8000
// or 8000h.
func parseAddress(s string) (uint16, error) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, nil
	}
	t = strings.TrimPrefix(strings.TrimPrefix(t, "0x"), "0X")
	t = strings.TrimPrefix(t, "$")
	t = strings.TrimSuffix(strings.TrimSuffix(t, "h"), "H")
	v, err := strconv.ParseUint(t, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid address %q", s)
	}
	return uint16(v), nil
}

// addListingFlags registers the flags shared by the root and run commands.
func addListingFlags(c *cobra.Command) {
	c.Flags().StringP("variant", "V", "1802", "COSMAC variant: 1801, 1802, 1804, 1805 or 1806")
	c.Flags().StringP("base", "b", "0000", "Load address of the image (hex)")
	c.Flags().StringP("start", "s", "", "First address to disassemble (hex, default: base)")
	c.Flags().IntP("count", "n", 0, "Maximum number of instructions (0: whole image)")
	c.Flags().BoolP("until-return", "u", false, "Stop after the first RET or DIS")
	c.Flags().BoolP("json", "j", false, "Output the listing as JSON")
	c.Flags().Bool("no-color", false, "Disable syntax highlighting")
}

// configFromFlags reads Config from the command's flags. COSDIS_VARIANT and
// COSDIS_BASE apply when the matching flag was not given.
func configFromFlags(c *cobra.Command) Config {
	var cfg Config
	cfg.Variant, _ = c.Flags().GetString("variant")
	cfg.Base, _ = c.Flags().GetString("base")
	cfg.Start, _ = c.Flags().GetString("start")
	cfg.Count, _ = c.Flags().GetInt("count")
	cfg.UntilReturn, _ = c.Flags().GetBool("until-return")
	cfg.JSON, _ = c.Flags().GetBool("json")
	cfg.NoColor, _ = c.Flags().GetBool("no-color")
	cfg.Debug, _ = c.Flags().GetBool("debug")

	if v := os.Getenv("COSDIS_VARIANT"); v != "" && !c.Flags().Changed("variant") {
		cfg.Variant = v
	}
	if v := os.Getenv("COSDIS_BASE"); v != "" && !c.Flags().Changed("base") {
		cfg.Base = v
	}
	if os.Getenv("COSDIS_NO_COLOR") != "" {
		cfg.NoColor = true
	}
	return cfg
}
