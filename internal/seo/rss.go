package seo

import (
	"encoding/xml"
	"io"
	"strconv"
	"time"

	"github.com/30tools/ai-agents-directory/internal/query"
	"github.com/30tools/ai-agents-directory/pkg/models"
)

const (
	// FeedSize is the number of agents in the RSS feed.
	FeedSize = 50

	feedContact = "contact@ai-agents-directory.com"
	feedTTL     = 1440
)

type cdata struct {
	Text string `xml:",cdata"`
}

type guid struct {
	IsPermaLink bool   `xml:"isPermaLink,attr"`
	Value       string `xml:",chardata"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// FeedItem is one <item> of the RSS feed.
type FeedItem struct {
	Title       cdata   `xml:"title"`
	Description cdata   `xml:"description"`
	Link        string  `xml:"link"`
	GUID        guid    `xml:"guid"`
	PubDate     string  `xml:"pubDate"`
	Categories  []cdata `xml:"category"`
	Author      string  `xml:"author"`
}

type channel struct {
	Title          string     `xml:"title"`
	Description    string     `xml:"description"`
	Link           string     `xml:"link"`
	AtomLink       atomLink   `xml:"atom:link"`
	Language       string     `xml:"language"`
	LastBuildDate  string     `xml:"lastBuildDate"`
	Generator      string     `xml:"generator"`
	WebMaster      string     `xml:"webMaster"`
	ManagingEditor string     `xml:"managingEditor"`
	Copyright      string     `xml:"copyright"`
	Categories     []string   `xml:"category"`
	TTL            int        `xml:"ttl"`
	Items          []FeedItem `xml:"item"`
}

type rss struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	AtomNS  string   `xml:"xmlns:atom,attr"`
	Channel channel  `xml:"channel"`
}

// FeedItems picks the first FeedSize agents by name.
func (s Site) FeedItems(agents []models.Agent) []FeedItem {
	sorted := query.Sort(agents, models.SortByName)
	if len(sorted) > FeedSize {
		sorted = sorted[:FeedSize]
	}

	pub := s.now().Format(time.RFC1123Z)
	items := make([]FeedItem, 0, len(sorted))
	for _, a := range sorted {
		link := s.URL("agents/" + a.Name)
		cats := make([]cdata, 0, len(a.Categories))
		for _, c := range a.Categories {
			cats = append(cats, cdata{c})
		}
		if len(cats) == 0 {
			cats = append(cats, cdata{"AI Tools"})
		}
		items = append(items, FeedItem{
			Title:       cdata{PlainText(a.DisplayTitle())},
			Description: cdata{PlainText(a.Summary())},
			Link:        link,
			GUID:        guid{IsPermaLink: true, Value: link},
			PubDate:     pub,
			Categories:  cats,
			Author:      SiteName,
		})
	}
	return items
}

// WriteFeed encodes the RSS 2.0 feed for agents.
func (s Site) WriteFeed(w io.Writer, agents []models.Agent) error {
	now := s.now()
	doc := rss{
		Version: "2.0",
		AtomNS:  "http://www.w3.org/2005/Atom",
		Channel: channel{
			Title:          SiteName,
			Description:    "Discover the latest AI agents and tools. Stay updated with our curated directory of AI solutions.",
			Link:           s.BaseURL,
			AtomLink:       atomLink{Href: s.URL("feed/rss.xml"), Rel: "self", Type: "application/rss+xml"},
			Language:       "en-US",
			LastBuildDate:  now.Format(time.RFC1123Z),
			Generator:      "ai-agents-directory",
			WebMaster:      feedContact,
			ManagingEditor: feedContact,
			Copyright:      "© " + strconv.Itoa(now.Year()) + " " + SiteName,
			Categories:     []string{"Technology", "Artificial Intelligence"},
			TTL:            feedTTL,
			Items:          s.FeedItems(agents),
		},
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
