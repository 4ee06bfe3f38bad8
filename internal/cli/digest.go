package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/newsletter"
)

var digestPostCount int

var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Print newsletter text for recent posts",
	Long: `Print the plain-text newsletter campaign body for the most
recent posts, ready to paste into the provider's campaign editor.

Examples:
  folio digest
  folio digest -n 3`,
	Args: cobra.NoArgs,
	RunE: runDigest,
}

func runDigest(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Load()
	siteCfg, err := config.LoadSite(cfg.SitePath())
	if err != nil {
		return err
	}
	resolved := config.Resolve(cfg, siteCfg)

	store := content.NewStore(cfg.ContentDir, false, log)
	if err := store.Load(); err != nil {
		return err
	}

	posts := store.Posts()
	if digestPostCount > 0 && len(posts) > digestPostCount {
		posts = posts[:digestPostCount]
	}

	fmt.Fprint(cmd.OutOrStdout(), newsletter.Digest(siteCfg.Title, resolved.BaseURL, posts))
	return nil
}

func init() {
	rootCmd.AddCommand(digestCmd)
	digestCmd.Flags().IntVarP(&digestPostCount, "posts", "n", 5, "How many recent posts to include")
}
