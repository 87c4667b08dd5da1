package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"cosdis/internal/analysis"
	"cosdis/internal/cosmac"
	"cosdis/internal/follow"
	"cosdis/internal/ui/colorize"
)

var followCmd = &cobra.Command{
	Use:   "follow [logfile]",
	Short: "Disassemble a trace log as it grows",
	Long: `Follow a trace log written by an emulator or monitor and disassemble
each line of the form "AAAA: BB BB ..." as it is appended.`,
	Example: `
# Follow a CDP1805 trace from the end
cosdis follow -V 1805 trace.log

# Replay the whole log first, polling for changes
cosdis follow --from-start --poll trace.log
  `,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("variant")
		if v := os.Getenv("COSDIS_VARIANT"); v != "" && !cmd.Flags().Changed("variant") {
			name = v
		}
		v, err := cosmac.ParseVariant(name)
		if err != nil {
			return err
		}

		var opts follow.Options
		opts.FromStart, _ = cmd.Flags().GetBool("from-start")
		opts.Poll, _ = cmd.Flags().GetBool("poll")
		noColor, _ := cmd.Flags().GetBool("no-color")
		color := !noColor && !colorize.Disabled() && isTerminal(cmd.OutOrStdout())

		parent := cmd.Context()
		if parent == nil {
			parent = context.Background()
		}
		ctx, stop := signal.NotifyContext(parent, os.Interrupt)
		defer stop()

		out := cmd.OutOrStdout()
		err = follow.Follow(ctx, args[0], cosmac.New(v), opts, func(in analysis.AnnotatedInst) {
			line := in.String()
			if color {
				line = colorize.ColorizeInstructionLine(line)
			}
			fmt.Fprintln(out, line)
		})
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	},
}

func init() {
	followCmd.Flags().StringP("variant", "V", "1802", "COSMAC variant: 1801, 1802, 1804, 1805 or 1806")
	followCmd.Flags().Bool("from-start", false, "Replay the existing log before following")
	followCmd.Flags().Bool("poll", false, "Poll for changes instead of using inotify")
	followCmd.Flags().Bool("no-color", false, "Disable syntax highlighting")
}
