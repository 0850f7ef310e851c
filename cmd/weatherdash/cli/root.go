package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/i474232898/weatherdash/internal/config"
)

type VersionInfo struct {
	Version string
	Commit  string
}

func NewRootCommand(info VersionInfo) *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:           "weatherdash",
		Short:         "WeatherDash simulated weather dashboard",
		Long:          "Serves a single-page dashboard of simulated daily weather records with search, bucket filters and summary statistics.",
		SilenceErrors: true,
		SilenceUsage:  true,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envFile == "" {
				return config.LoadDotEnv()
			}
			return config.LoadDotEnv(envFile)
		},
	}

	cmd.PersistentFlags().StringVar(&envFile, "env-file", "", "environment file to load (default is ./.env)")
	cmd.Version = fmt.Sprintf("%s.%s", info.Version, info.Commit)

	return cmd
}
