package cmd

import (
	"github.com/spf13/cobra"

	"cnnvideo/internal/ui"
)

var extractorsCmd = &cobra.Command{
	Use:   "extractors",
	Short: "List supported extractors in dispatch order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := newRegistry()
		if err != nil {
			return err
		}
		ui.NewPrinter(cmd.OutOrStdout()).Extractors(reg.List())
		return nil
	},
}
