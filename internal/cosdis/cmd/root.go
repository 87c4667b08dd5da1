package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	pathpkg "path/filepath"
	"runtime/pprof"

	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"cosdis/internal/cosdis/log"
)

func init() {
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().Bool("no-tui", false, "Print the listing without the TUI")
	rootCmd.Flags().String("cpuprofile", "", "Write CPU profile to file")
	rootCmd.Flags().String("memprofile", "", "Write memory profile to file")
	addListingFlags(rootCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(tableCmd)
	rootCmd.AddCommand(followCmd)
}

var rootCmd = &cobra.Command{
	Use:   "cosdis [file]",
	Short: "Disassembler for RCA COSMAC ROM images",
	Long: `Cosdis disassembles machine code for the RCA COSMAC family
(CDP1801, CDP1802/1804 and CDP1805/1806).
On a terminal it opens an interactive listing; when piped it prints the listing.`,
	Example: `
# Browse a CDP1802 monitor ROM loaded at 8000
cosdis -b 8000 monitor.bin

# Print the subroutine at 8123 up to its return
cosdis --no-tui -b 8000 -s 8123 -u monitor.bin

# JSON listing for a CDP1805 image
cosdis -V 1805 -j rom.bin.gz
  `,
	Args: cobra.ExactArgs(1),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		log.Setup(debug)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cpuprofile, _ := cmd.Flags().GetString("cpuprofile")
		if cpuprofile != "" {
			f, err := os.Create(cpuprofile)
			if err != nil {
				return fmt.Errorf("could not create CPU profile: %w", err)
			}
			defer f.Close()
			if err := pprof.StartCPUProfile(f); err != nil {
				return fmt.Errorf("could not start CPU profile: %w", err)
			}
			defer pprof.StopCPUProfile()
		}

		memprofile, _ := cmd.Flags().GetString("memprofile")
		if memprofile != "" {
			defer func() {
				f, err := os.Create(memprofile)
				if err != nil {
					fmt.Fprintf(os.Stderr, "could not create memory profile: %v\n", err)
					return
				}
				defer f.Close()
				if err := pprof.WriteHeapProfile(f); err != nil {
					fmt.Fprintf(os.Stderr, "could not write memory profile: %v\n", err)
				}
			}()
		}

		absPath, err := pathpkg.Abs(args[0])
		if err != nil {
			return fmt.Errorf("failed to resolve path: %w", err)
		}

		cfg := configFromFlags(cmd)
		s, err := cfg.resolve()
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if !term.IsTerminal(os.Stdout.Fd()) {
			noTUI = true
			cfg.NoColor = true
		}

		if cfg.JSON {
			return runJSON(cmd.OutOrStdout(), absPath, s)
		}
		if noTUI {
			return runNoTUI(cmd.OutOrStdout(), absPath, s, !cfg.NoColor)
		}

		if _, err := os.Stat(absPath); err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("file not found: %s", args[0])
			}
			return fmt.Errorf("cannot access file: %w", err)
		}

		program := tea.NewProgram(
			NewModel(absPath, s),
			tea.WithAltScreen(),
			tea.WithContext(cmd.Context()),
		)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %w", err)
		}
		return nil
	},
}

func runJSON(w io.Writer, path string, s settings) error {
	im, err := loadImage(path, s)
	if err != nil {
		return err
	}
	return writeJSON(w, im, s)
}

func runNoTUI(w io.Writer, path string, s settings, color bool) error {
	im, err := loadImage(path, s)
	if err != nil {
		return err
	}
	slog.Debug("listing", "file", im.Path, "variant", s.variant, "start", fmt.Sprintf("%04X", s.start))
	return writeListing(w, im, s, color)
}

func Execute() {
	// Bypass fang's markdown rendering when printing plain output or piping.
	noTUI := false
	for _, arg := range os.Args[1:] {
		if arg == "--no-tui" || arg == "--json" || arg == "-j" {
			noTUI = true
			break
		}
	}
	if !noTUI && !term.IsTerminal(os.Stdout.Fd()) {
		noTUI = true
	}

	if noTUI {
		if err := rootCmd.Execute(); err != nil {
			os.Exit(1)
		}
	} else {
		if err := fang.Execute(
			context.Background(),
			rootCmd,
			fang.WithNotifySignal(os.Interrupt),
		); err != nil {
			os.Exit(1)
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(f.Fd())
}
