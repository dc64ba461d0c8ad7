package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"cnnvideo/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "List downloaded videos",
	Args:  cobra.NoArgs,
	RunE:  archiveRun,
}

var archiveRmCmd = &cobra.Command{
	Use:   "rm <extractor> <id>",
	Short: "Forget a download so it can be fetched again",
	Args:  cobra.ExactArgs(2),
	RunE:  archiveRmRun,
}

func init() {
	archiveCmd.AddCommand(archiveRmCmd)
}

func archiveRun(cmd *cobra.Command, args []string) error {
	arc, err := archive.OpenDefault()
	if err != nil {
		return err
	}
	entries, err := arc.Load()
	if err != nil {
		return fmt.Errorf("loading archive: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No archived downloads.")
		return nil
	}
	for _, line := range archive.FormatForDisplay(entries) {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func archiveRmRun(cmd *cobra.Command, args []string) error {
	arc, err := archive.OpenDefault()
	if err != nil {
		return err
	}
	removed, err := arc.Remove(args[0], args[1])
	if err != nil {
		return fmt.Errorf("updating archive: %w", err)
	}
	if !removed {
		return fmt.Errorf("%s %s is not in the archive", args[0], args[1])
	}
	cliLog().Debug().Str("extractor", args[0]).Str("id", args[1]).Msg("removed from archive")
	return nil
}
