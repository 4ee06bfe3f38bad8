package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/spf13/cobra"

	"github.com/quietpage/folio/internal/config"
)

var newCmd = &cobra.Command{
	Use:   "new <title>",
	Short: "Scaffold a draft post",
	Long: `Create a new draft post under the content directory.

The filename comes from the slugified title, the date is today, and the
post starts as a draft so it stays off the site until you flip it.

Examples:
  folio new "Notes on Sourdough"
  # writes content/posts/notes-on-sourdough.md`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

func runNew(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	title := strings.TrimSpace(args[0])
	s := slug.Make(title)
	if s == "" {
		return fmt.Errorf("title %q does not reduce to a usable slug", title)
	}

	path := filepath.Join(cfg.ContentDir, "posts", s+".md")
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	body := fmt.Sprintf(`---
title: %q
date: %s
tags: []
draft: true
---

Write here.
`, title, time.Now().Format("2006-01-02"))

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}

func init() {
	rootCmd.AddCommand(newCmd)
}
