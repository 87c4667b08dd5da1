package cmd

import (
	"fmt"
	"log/slog"
	pathpkg "path/filepath"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Print a listing without the TUI",
	Long: `Disassemble an image in non-interactive mode and exit.
Colors are used only when stdout is a terminal and --no-color is not set.`,
	Example: `
# List a whole CDP1801 image
cosdis run -V 1801 rom.bin

# Quiet JSON listing of 32 instructions
cosdis run -q -j -n 32 rom.bin
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		quiet, _ := cmd.Flags().GetBool("quiet")

		path, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		cfg := configFromFlags(cmd)
		s, err := cfg.resolve()
		if err != nil {
			return err
		}

		if !quiet {
			slog.Info("Disassembling", "file", path, "variant", s.variant)
		}

		if cfg.JSON {
			return runJSON(cmd.OutOrStdout(), path, s)
		}
		return runNoTUI(cmd.OutOrStdout(), path, s, !cfg.NoColor && isTerminal(cmd.OutOrStdout()))
	},
}

func init() {
	runCmd.Flags().BoolP("quiet", "q", false, "Do not log progress")
	addListingFlags(runCmd)
}
