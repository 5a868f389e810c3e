package apps

import (
	"os"

	"github.com/guregu/null/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/h2hsecure/ghprofile/internal/domain"
)

const (
	AppDescription = `This is a GitHub profile client. Here is the options:
	- show: Fetch and print the profile of the token owner
	- id: Print the profile id (login name) of the token owner
	- url: Print the public profile url of the token owner
	- sync: Fetch the profile and store a snapshot in the local database
	- list: Print the snapshots stored in the local database
	- watch: Daemon refreshing the snapshot periodically`
)

// loadConfig reads the file named by --config and applies --token on top.
func loadConfig(cmd *cobra.Command) *domain.Config {
	path, _ := cmd.Flags().GetString("config")
	cfg := domain.LoadConfig(path)

	if token, _ := cmd.Flags().GetString("token"); token != "" {
		cfg.GitHub.AccessToken = token
	}

	setupLogger(cfg.LogLevel)

	return cfg
}

func setupLogger(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func orDash(s null.String) string {
	return lo.Ternary(s.Valid, s.String, "-")
}
