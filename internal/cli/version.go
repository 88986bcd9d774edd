package cli

import (
	"github.com/spf13/cobra"

	"github.com/kailas-cloud/places/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printf(cmd.OutOrStdout(), "placesctl %s\n", version.String())
		},
	}
}
