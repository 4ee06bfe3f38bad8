package content

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// seedContent lays out a content dir with two published posts, one
// draft, one library doc and a projects file.
func seedContent(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeFile(t, filepath.Join(dir, "posts", "older-post.md"), `---
title: Older Post
date: 2024-01-05
tags: [go, tooling]
---

First body paragraph.
`)
	writeFile(t, filepath.Join(dir, "posts", "newer-post.md"), `---
title: Newer Post
date: 2024-06-20
tags: [go]
---

## Section One

Words here.
`)
	writeFile(t, filepath.Join(dir, "posts", "secret-draft.md"), `---
title: Secret Draft
date: 2024-07-01
draft: true
---

Not ready.
`)
	writeFile(t, filepath.Join(dir, "library", "field-guide.md"), `# Field Guide

## Knots

Content about knots.
`)
	writeFile(t, filepath.Join(dir, "projects.yaml"), `- name: folio
  description: This site.
  repo: https://github.com/quietpage/folio
  year: 2024
- name: older-thing
  description: An older project.
  year: 2021
`)
	return dir
}

func TestStore_LoadAndOrder(t *testing.T) {
	s := NewStore(seedContent(t), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	posts := s.Posts()
	if len(posts) != 2 {
		t.Fatalf("expected 2 published posts, got %d", len(posts))
	}
	if posts[0].Slug != "newer-post" || posts[1].Slug != "older-post" {
		t.Errorf("expected newest first, got %s then %s", posts[0].Slug, posts[1].Slug)
	}
}

func TestStore_DraftsHiddenUnlessEnabled(t *testing.T) {
	dir := seedContent(t)

	s := NewStore(dir, false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := s.PostBySlug("secret-draft"); ok {
		t.Error("expected draft to be hidden")
	}

	s = NewStore(dir, true, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, ok := s.PostBySlug("secret-draft"); !ok {
		t.Error("expected draft to be visible with drafts enabled")
	}
}

func TestStore_PostBySlug(t *testing.T) {
	s := NewStore(seedContent(t), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	p, ok := s.PostBySlug("older-post")
	if !ok {
		t.Fatal("expected older-post to exist")
	}
	if p.Title != "Older Post" {
		t.Errorf("expected title %q, got %q", "Older Post", p.Title)
	}
	if _, ok := s.PostBySlug("nope"); ok {
		t.Error("expected missing slug to report not found")
	}
}

func TestStore_PostsByTag(t *testing.T) {
	s := NewStore(seedContent(t), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := s.PostsByTag("go"); len(got) != 2 {
		t.Errorf("expected 2 posts tagged go, got %d", len(got))
	}
	if got := s.PostsByTag("TOOLING"); len(got) != 1 {
		t.Errorf("expected tag lookup to be case-insensitive, got %d posts", len(got))
	}
	if got := s.PostsByTag("nope"); len(got) != 0 {
		t.Errorf("expected no posts for unknown tag, got %d", len(got))
	}
}

func TestStore_Tags(t *testing.T) {
	s := NewStore(seedContent(t), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	tags := s.Tags()
	if len(tags) != 2 {
		t.Fatalf("expected 2 tags, got %v", tags)
	}
	if tags[0].Tag != "go" || tags[0].Count != 2 {
		t.Errorf("expected go×2 first alphabetically, got %+v", tags[0])
	}
	if tags[1].Tag != "tooling" || tags[1].Count != 1 {
		t.Errorf("expected tooling×1, got %+v", tags[1])
	}
}

func TestStore_Related(t *testing.T) {
	s := NewStore(seedContent(t), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	p, _ := s.PostBySlug("newer-post")
	related := s.Related(p, 5)
	if len(related) != 1 || related[0].Slug != "older-post" {
		t.Errorf("expected older-post as related via shared tag, got %v", related)
	}
	// A post never relates to itself.
	for _, r := range related {
		if r.Slug == p.Slug {
			t.Error("post related to itself")
		}
	}
}

func TestStore_LibraryAndProjects(t *testing.T) {
	s := NewStore(seedContent(t), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}

	docs := s.Docs()
	if len(docs) != 1 {
		t.Fatalf("expected 1 library doc, got %d", len(docs))
	}
	if docs[0].Slug != "field-guide" || docs[0].Title != "Field Guide" {
		t.Errorf("unexpected library doc: %+v", docs[0])
	}
	if _, ok := s.DocBySlug("field-guide"); !ok {
		t.Error("expected doc lookup by slug")
	}

	projects := s.Projects()
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Name != "folio" {
		t.Errorf("expected newest project first, got %q", projects[0].Name)
	}
}

func TestStore_EmptyContentDirTolerated(t *testing.T) {
	s := NewStore(t.TempDir(), false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("expected empty dir to load cleanly, got %v", err)
	}
	if len(s.Posts()) != 0 || len(s.Docs()) != 0 || len(s.Projects()) != 0 {
		t.Error("expected empty store")
	}
}

func TestStore_ReloadPicksUpNewPost(t *testing.T) {
	dir := seedContent(t)
	s := NewStore(dir, false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	before := s.LoadedAt()

	writeFile(t, filepath.Join(dir, "posts", "fresh.md"), `---
title: Fresh
date: 2024-08-01
---

New words.
`)
	if err := s.Load(); err != nil {
		t.Fatalf("reload: %v", err)
	}

	if len(s.Posts()) != 3 {
		t.Errorf("expected 3 posts after reload, got %d", len(s.Posts()))
	}
	if s.LoadedAt().Before(before) {
		t.Error("expected LoadedAt to advance")
	}
}

func TestStore_UnparsablePostSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "posts", "bad.md"), "---\ntitle: [unclosed\n---\n\nBody.\n")
	writeFile(t, filepath.Join(dir, "posts", "good.md"), `---
title: Good
date: 2024-02-02
---

Fine.
`)

	s := NewStore(dir, false, testLogger())
	if err := s.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(s.Posts()) != 1 || s.Posts()[0].Slug != "good" {
		t.Errorf("expected only the good post, got %v", s.Posts())
	}
}
