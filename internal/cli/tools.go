package cli

import (
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newToolsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tools",
		Short: "Print the tool definitions as Anthropic API JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(flags)
			if err != nil {
				return err
			}
			a, err := newApp(settings, zerolog.Nop(), "")
			if err != nil {
				return err
			}
			defer a.store.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(a.registry.ListForAPI())
		},
	}
}
