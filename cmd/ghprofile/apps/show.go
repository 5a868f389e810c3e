package apps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/h2hsecure/ghprofile/internal/adapter"
	"github.com/h2hsecure/ghprofile/internal/domain"
)

var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Fetch and print the profile of the token owner",
	Long:  AppDescription,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		asJSON, _ := cmd.Flags().GetBool("json")

		if err := Show(cmd.Context(), loadConfig(cmd), os.Stdout, asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "%s\n", err.Error())
			os.Exit(1)
		}
	},
}

var IdCmd = &cobra.Command{
	Use:   "id",
	Short: "Print the profile id of the token owner",
	Long:  AppDescription,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		id, err := adapter.NewGitHubAdapter(cfg).ProfileID(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "profile id: %s\n", err.Error())
			os.Exit(1)
		}

		fmt.Println(id)
	},
}

var UrlCmd = &cobra.Command{
	Use:   "url",
	Short: "Print the public profile url of the token owner",
	Long:  AppDescription,
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig(cmd)

		url, err := adapter.NewGitHubAdapter(cfg).ProfileURL(cmd.Context())
		if err != nil {
			fmt.Fprintf(os.Stderr, "profile url: %s\n", err.Error())
			os.Exit(1)
		}

		fmt.Println(url)
	},
}

func init() {
	ShowCmd.Flags().Bool("json", false, "print the profile as json")
}

func Show(ctx context.Context, cfg *domain.Config, w io.Writer, asJSON bool) error {
	profile, err := adapter.NewGitHubAdapter(cfg).FetchUserProfile(ctx)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(profile)
	}

	return printProfile(w, profile)
}

func printProfile(w io.Writer, p domain.UserProfile) error {
	created := "-"
	if p.CreatedAt.Valid {
		created = p.CreatedAt.Time.Format(time.RFC3339)
	}

	_, err := fmt.Fprintf(w,
		"id:       %d\nlogin:    %s\nname:     %s\nlocation: %s\ncompany:  %s\nblog:     %s\nemail:    %s\ncreated:  %s\nurl:      %s\n",
		p.ID, p.Username, p.DisplayName,
		orDash(p.Location), orDash(p.Company), orDash(p.BlogURL), orDash(p.Email),
		created, p.URL(),
	)

	return err
}
