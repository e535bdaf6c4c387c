// Package links derives outbound URLs for agents: display domains, favicon
// URLs and the real product URL for agents whose listing URL points back at
// a directory site.
package links

import (
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/30tools/ai-agents-directory/pkg/models"
)

// DefaultFaviconSize is the icon size requested from the favicon service.
const DefaultFaviconSize = 32

// BlockedDomains are never chosen as an agent's real URL.
var BlockedDomains = []string{
	"twitter.com", "x.com", "linkedin.com", "facebook.com", "instagram.com",
	"youtube.com", "github.com", "tally.so", "gumroad.com",
	"aistage.net", "aitoolzdir.com", "startupfa.me", "aitooltrek.com",
	"producthunt.com",
}

var domainPattern = regexp.MustCompile(`(?i)^(?:https?://)?(?:www\.)?([^/?]+)`)

// Domain returns the host of rawURL. Unparseable input falls back to the
// leading host-like segment, then to the input itself.
func Domain(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	if m := domainPattern.FindStringSubmatch(rawURL); m != nil {
		return m[1]
	}
	return rawURL
}

// FaviconURL is the Google favicon service URL for the domain of rawURL.
func FaviconURL(rawURL string, size int) string {
	if size <= 0 {
		size = DefaultFaviconSize
	}
	return "https://www.google.com/s2/favicons?domain=" + Domain(rawURL) + "&sz=" + strconv.Itoa(size)
}

// FallbackFaviconURL is the conventional /favicon.ico on the same domain.
func FallbackFaviconURL(rawURL string) string {
	return "https://" + Domain(rawURL) + "/favicon.ico"
}

// Resolver picks real product URLs. Hosts in Internal are directory sites
// (this one and the one the dataset was scraped from).
type Resolver struct {
	Internal []string
}

// NewResolver builds a Resolver treating the hosts of the given URLs as
// internal. Empty or invalid URLs are skipped.
func NewResolver(urls ...string) *Resolver {
	r := &Resolver{}
	for _, raw := range urls {
		u, err := url.Parse(raw)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := strings.TrimPrefix(u.Hostname(), "www.")
		if !slices.Contains(r.Internal, host) {
			r.Internal = append(r.Internal, host)
		}
	}
	return r
}

// RealURL returns the agent's own url when it is external. Otherwise it
// returns the first external link not on a blocked or internal domain.
// ok is false when no candidate exists.
func (r *Resolver) RealURL(a models.Agent) (string, bool) {
	if u, err := url.Parse(a.URL); err == nil && u.Hostname() != "" && !r.isInternal(u.Hostname()) {
		return a.URL, true
	}

	for _, link := range a.ExternalLinks {
		u, err := url.Parse(link)
		if err != nil || u.Hostname() == "" {
			continue
		}
		host := strings.Replace(u.Hostname(), "www.", "", 1)
		if r.isInternal(host) || blocked(host) {
			continue
		}
		return link, true
	}
	return "", false
}

// VisitURL is RealURL falling back to the listing url.
func (r *Resolver) VisitURL(a models.Agent) string {
	if u, ok := r.RealURL(a); ok {
		return u
	}
	return a.URL
}

func (r *Resolver) isInternal(host string) bool {
	for _, h := range r.Internal {
		if strings.Contains(host, h) {
			return true
		}
	}
	return false
}

func blocked(host string) bool {
	for _, d := range BlockedDomains {
		if strings.Contains(host, d) {
			return true
		}
	}
	return false
}
