package main

import (
	"os"

	"github.com/h2hsecure/ghprofile/cmd/ghprofile/apps"
	"github.com/h2hsecure/ghprofile/internal/domain"
	"github.com/spf13/cobra"
)

var (
	// Used for flags.
	cfgFile string
	token   string

	rootCmd = &cobra.Command{
		Use:   "ghprofile",
		Short: "GitHub profile client",
		Long:  apps.AppDescription,
	}
)

func main() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", domain.DefaultConfigPath, "config file")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "access token, overrides github.access_token")

	rootCmd.AddCommand(apps.ShowCmd)
	rootCmd.AddCommand(apps.IdCmd)
	rootCmd.AddCommand(apps.UrlCmd)
	rootCmd.AddCommand(apps.SyncCmd)
	rootCmd.AddCommand(apps.ListCmd)
	rootCmd.AddCommand(apps.WatchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}
