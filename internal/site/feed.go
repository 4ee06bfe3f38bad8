package site

import (
	"time"

	"github.com/beevik/etree"

	"github.com/quietpage/folio/internal/content"
)

const feedItemLimit = 20

// Feed builds the RSS 2.0 document for the newest posts. Output is
// deterministic for a given post list, so an unchanged site exports
// byte-identical XML.
func (r *Renderer) Feed(posts []*content.Post) (string, error) {
	if len(posts) > feedItemLimit {
		posts = posts[:feedItemLimit]
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:atom", "http://www.w3.org/2005/Atom")

	channel := rss.CreateElement("channel")
	channel.CreateElement("title").SetText(r.site.Title)
	channel.CreateElement("link").SetText(r.baseURL + "/")
	channel.CreateElement("description").SetText(r.site.Description)
	if len(posts) > 0 {
		// The newest post dates the whole feed.
		channel.CreateElement("lastBuildDate").SetText(posts[0].Date.Format(time.RFC1123Z))
	}

	self := channel.CreateElement("atom:link")
	self.CreateAttr("href", r.baseURL+"/feed.xml")
	self.CreateAttr("rel", "self")
	self.CreateAttr("type", "application/rss+xml")

	for _, p := range posts {
		link := r.baseURL + "/blog/" + p.Slug

		item := channel.CreateElement("item")
		item.CreateElement("title").SetText(p.Title)
		item.CreateElement("link").SetText(link)
		guid := item.CreateElement("guid")
		guid.CreateAttr("isPermaLink", "true")
		guid.SetText(link)
		item.CreateElement("pubDate").SetText(p.Date.Format(time.RFC1123Z))
		if p.Summary != "" {
			item.CreateElement("description").SetText(p.Summary)
		}
		for _, t := range p.Tags {
			item.CreateElement("category").SetText(t)
		}
	}

	return doc.WriteToString()
}
