package apps

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/h2hsecure/ghprofile/internal/adapter"
	"github.com/h2hsecure/ghprofile/internal/domain"
)

var WatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Refresh the stored profile snapshot periodically",
	Long:  AppDescription,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		// Listen for termination signal for gracefully shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)

		cfg := loadConfig(cmd)

		store, err := adapter.NewBoltStore(cfg.DBPath, false)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(1)
		}

		defer func() {
			if err := store.Close(); err != nil {
				log.Warn().Err(err).Msgf("db close")
			}
		}()

		svc := domain.NewService(cfg, store, adapter.NewGitHubAdapter(cfg))

		if err := Watch(cmd.Context(), svc, cfg.RefreshInterval, c); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
		}
	},
}

// Watch refreshes the snapshot once, then every interval until a signal
// arrives or ctx is done. Failed refreshes are logged and retried on the
// next tick.
func Watch(ctx context.Context, svc domain.IService, interval time.Duration, c <-chan os.Signal) error {
	if interval <= 0 {
		return fmt.Errorf("refresh interval must be positive: %s", interval)
	}

	grp, ctx := errgroup.WithContext(ctx)
	stop := make(chan struct{})

	grp.Go(func() error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		refresh(ctx, svc)

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-stop:
				return nil
			case <-ticker.C:
				refresh(ctx, svc)
			}
		}
	})

	grp.Go(func() error {
		defer close(stop)

		select {
		case s := <-c:
			log.Info().Str("signal", s.String()).Msg("closing the app")
		case <-ctx.Done():
		}
		return nil
	})

	return grp.Wait()
}

func refresh(ctx context.Context, svc domain.IService) {
	if _, err := svc.Refresh(ctx); err != nil {
		log.Error().Err(err).Msg("refresh profile")
	}
}
