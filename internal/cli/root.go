package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Personal site engine",
	Long: `folio serves a markdown-driven personal site and builds the same
site as a tree of static files.

Content lives in one directory: posts/ for blog entries with YAML front
matter, library/ for long-form documents (markdown, HTML, DOCX, PDF),
projects.yaml for the portfolio and site.yaml for the site identity.

Environment Variables:
  FOLIO_CONTENT_DIR  Content directory (default: content)
  FOLIO_ADDR         Listen address for serve (default: :8080)
  FOLIO_OUT_DIR      Output directory for build (default: public)
  FOLIO_BASE_URL     Absolute URL the site is served under`,
	Version:      version,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func init() {
	rootCmd.SetVersionTemplate("folio version {{.Version}}\n")
}
