// Command forestreplay replays a TOML script of forest mutations, checking
// all forest invariants after every step.
//
//	forestreplay [--verbose] [--tree] [--json] script.toml
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/npillmayer/forest/internal/replay"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var verbose, tree, asJSON bool

	cmd := &cobra.Command{
		Use:          "forestreplay [flags] script.toml",
		Short:        "Replay a script of forest mutations and validate every step",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := replay.WithLogger(cmd.Context(), replay.NewLogger(stderr, level))
			script, err := replay.Load(args[0])
			if err != nil {
				return err
			}
			rep, runErr := replay.Run(ctx, script)
			if tree {
				fmt.Fprint(stdout, replay.Render(rep.Forest))
			}
			if asJSON {
				enc := json.NewEncoder(stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			}
			return runErr
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log every step")
	cmd.Flags().BoolVarP(&tree, "tree", "t", false, "print the final forest")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report, including the change feed, as JSON")
	return cmd
}
