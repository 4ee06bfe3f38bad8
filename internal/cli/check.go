package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quietpage/folio/internal/config"
	"github.com/quietpage/folio/internal/content"
	"github.com/quietpage/folio/internal/markup"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate all content",
	Long: `Validate everything serve and build would consume: site.yaml,
projects.yaml, every post (drafts included) and every library document.

Prints one line per problem and exits non-zero if anything is wrong.

Examples:
  folio check
  FOLIO_CONTENT_DIR=~/site/content folio check`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	out := cmd.OutOrStdout()

	problems := 0
	report := func(target, msg string) {
		problems++
		fmt.Fprintf(out, "%s: %s\n", target, msg)
	}

	if _, err := config.LoadSite(cfg.SitePath()); err != nil {
		report("site.yaml", err.Error())
	}
	if _, err := content.LoadProjects(filepath.Join(cfg.ContentDir, "projects.yaml")); err != nil {
		report("projects.yaml", err.Error())
	}

	checked := 0

	postsDir := filepath.Join(cfg.ContentDir, "posts")
	entries, err := os.ReadDir(postsDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext != ".md" && ext != ".markdown" {
			continue
		}
		checked++
		p, err := content.LoadPost(filepath.Join(postsDir, e.Name()))
		if err != nil {
			report(e.Name(), err.Error())
			continue
		}
		for _, msg := range p.Problems() {
			report(e.Name(), msg)
		}
	}

	libraryDir := filepath.Join(cfg.ContentDir, "library")
	entries, err = os.ReadDir(libraryDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !markup.IsSupportedExtension(e.Name()) {
			continue
		}
		checked++
		if _, err := content.LoadLibraryDoc(filepath.Join(libraryDir, e.Name())); err != nil {
			report(e.Name(), err.Error())
		}
	}

	if problems > 0 {
		return fmt.Errorf("found %d problems across %d files", problems, checked)
	}
	fmt.Fprintf(out, "ok: %d files checked\n", checked)
	return nil
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
