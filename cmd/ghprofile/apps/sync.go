package apps

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/h2hsecure/ghprofile/internal/adapter"
	"github.com/h2hsecure/ghprofile/internal/domain"
)

var SyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the profile and store a snapshot in the local database",
	Long:  AppDescription,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if err := Sync(cmd.Context(), loadConfig(cmd)); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(1)
		}
	},
}

func Sync(ctx context.Context, cfg *domain.Config) error {
	store, err := adapter.NewBoltStore(cfg.DBPath, false)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msgf("db close")
		}
	}()

	svc := domain.NewService(cfg, store, adapter.NewGitHubAdapter(cfg))

	if _, err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	return nil
}
