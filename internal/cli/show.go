package ccdbench

import (
	"github.com/spf13/cobra"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/appconfig"
)

// newShowCmd builds the 'show' command group for displaying settings.
func newShowCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Group commands for displaying settings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "config",
		Short: "Show config settings",
		Long:  `Show config settings after the config file has been loaded and overridden by flags.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			appconfig.ShowConfig(cmd.OutOrStdout(), a.cfg.ConfigPath, &a.cfg, appconfig.Config{})
		},
	})
	return cmd
}
