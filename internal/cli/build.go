package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/export"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Render the site to static files",
	Long: `Render every page of the site into the output directory.

Pages whose bytes already match what is on disk are skipped, so repeat
builds only touch what changed. Exits non-zero if any page fails.

Examples:
  # Build ./content into ./public
  folio build

  # Build somewhere else
  FOLIO_OUT_DIR=dist folio build`,
	Args: cobra.NoArgs,
	RunE: runBuild,
}

func runBuild(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	store := content.NewStore(cfg.ContentDir, cfg.ShowDrafts, log)
	if err := store.Load(); err != nil {
		return err
	}

	builder, err := export.NewBuilder(cfg, store, log)
	if err != nil {
		return err
	}

	snap, err := builder.Build(cmd.Context())
	if err != nil {
		for _, e := range snap.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "built %d pages into %s: %d written, %d skipped (%dms)\n",
		snap.Pages(), cfg.OutDir, snap.Written, snap.Skipped, snap.DurationMs)
	return nil
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
