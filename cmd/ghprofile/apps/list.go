package apps

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/h2hsecure/ghprofile/internal/adapter"
	"github.com/h2hsecure/ghprofile/internal/domain"
)

var ListCmd = &cobra.Command{
	Use:   "list [username]",
	Short: "Print the snapshots stored in the local database",
	Long:  AppDescription,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var ops []domain.SearchProfileOp
		if len(args) == 1 {
			ops = append(ops, domain.WithUsername(args[0]))
		}

		if err := List(cmd.Context(), loadConfig(cmd), os.Stdout, ops...); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(1)
		}
	},
}

func List(ctx context.Context, cfg *domain.Config, w io.Writer, ops ...domain.SearchProfileOp) error {
	snapshots, err := listSnapshots(ctx, cfg, ops...)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tLOGIN\tNAME\tURL\tFETCHED")

	rows := lo.Map(snapshots, func(s domain.Snapshot, _ int) string {
		return fmt.Sprintf("%d\t%s\t%s\t%s\t%s",
			s.Profile.ID, s.Profile.Username, s.Profile.DisplayName, s.Profile.URL(),
			s.FetchedAt.Format(time.RFC3339))
	})
	for _, row := range rows {
		_, _ = fmt.Fprintln(tw, row)
	}

	return tw.Flush()
}

// listSnapshots reads the local database. A database that was never
// written to holds no snapshots.
func listSnapshots(ctx context.Context, cfg *domain.Config, ops ...domain.SearchProfileOp) ([]domain.Snapshot, error) {
	if _, err := os.Stat(cfg.DBPath); errors.Is(err, fs.ErrNotExist) {
		if len(ops) > 0 {
			return nil, fmt.Errorf("find profile: %w", domain.ErrNotFound)
		}
		return nil, nil
	}

	store, err := adapter.NewBoltStore(cfg.DBPath, true)
	if err != nil {
		return nil, err
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msgf("db close")
		}
	}()

	svc := domain.NewService(cfg, store, nil)

	if len(ops) > 0 {
		snapshot, err := svc.FindProfile(ctx, ops...)
		if err != nil {
			return nil, fmt.Errorf("find profile: %w", err)
		}
		return []domain.Snapshot{snapshot}, nil
	}

	return svc.Profiles(ctx)
}
