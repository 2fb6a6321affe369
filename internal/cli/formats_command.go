package cli

import (
	"decant.audio/internal/audio"
	"github.com/spf13/cobra"
)

// newVersionCommand creates the version subcommand
func newVersionCommand(cli *CLI) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cli.printVersion(cmd.OutOrStdout())
		},
	}
}

// newFormatsCommand creates the formats subcommand
func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List the decoders compiled into this build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, feature := range audio.EnabledFeatures() {
				cmd.Println(feature)
			}
			return nil
		},
	}
}
