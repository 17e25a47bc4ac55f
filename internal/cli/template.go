package cli

import (
	"github.com/spf13/cobra"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
)

func newTemplateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "template",
		Short: "Print the empty batch CSV template",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return batch.WriteTemplate(cmd.OutOrStdout())
		},
	}
}
