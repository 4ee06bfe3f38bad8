package site

import (
	"time"

	"github.com/beevik/etree"

	"github.com/quietpage/folio/internal/content"
)

// Sitemap builds the XML sitemap covering every page the site serves.
// pageCount is the number of blog index pages.
func (r *Renderer) Sitemap(posts []*content.Post, docs []*content.LibraryDoc, tags []content.TagCount, pageCount int) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	urlset := doc.CreateElement("urlset")
	urlset.CreateAttr("xmlns", "http://www.sitemaps.org/schemas/sitemap/0.9")

	add := func(path string, lastMod time.Time) {
		u := urlset.CreateElement("url")
		u.CreateElement("loc").SetText(r.baseURL + path)
		if !lastMod.IsZero() {
			u.CreateElement("lastmod").SetText(lastMod.Format("2006-01-02"))
		}
	}

	var newest time.Time
	if len(posts) > 0 {
		newest = posts[0].Date
	}

	add("/", newest)
	add("/blog", newest)
	for page := 2; page <= pageCount; page++ {
		add(BlogPath(page), newest)
	}
	for _, p := range posts {
		add("/blog/"+p.Slug, p.Date)
	}
	for _, t := range tags {
		add("/tags/"+t.Tag, newest)
	}
	add("/projects", time.Time{})
	if len(docs) > 0 {
		add("/library", time.Time{})
		for _, d := range docs {
			add("/library/"+d.Slug, time.Time{})
		}
	}

	return doc.WriteToString()
}
