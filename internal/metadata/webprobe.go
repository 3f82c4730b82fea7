package metadata

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/textutil"
)

// WebLink is a detail link found on the catalog's web search page.
type WebLink struct {
	Type media.Type
	ID   int
}

// WebProber scrapes the catalog's public search page, which matches some
// titles the API search does not.
type WebProber struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewWebProber creates a prober against the site at baseURL.
func NewWebProber(baseURL string, timeout time.Duration, logger *zerolog.Logger) *WebProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebProber{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		logger:     logger.With().Str("component", "webprobe").Logger(),
	}
}

// Links returns the distinct movie and tv detail links the search page shows
// for query, in page order.
func (p *WebProber) Links(ctx context.Context, query string) ([]WebLink, error) {
	doc, err := fetchDocument(ctx, p.httpClient, p.baseURL+"/search?query="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}

	var links []WebLink
	seen := make(map[WebLink]struct{})
	doc.Find("a[data-id]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		link, ok := parseDetailLink(href)
		if !ok {
			return
		}
		if _, dup := seen[link]; dup {
			return
		}
		seen[link] = struct{}{}
		links = append(links, link)
	})

	p.logger.Debug().Str("query", query).Int("links", len(links)).Msg("Web search completed")
	return links, nil
}

// parseDetailLink reads "/movie/27205-inception" style paths.
func parseDetailLink(href string) (WebLink, bool) {
	if i := strings.IndexAny(href, "?#"); i >= 0 {
		href = href[:i]
	}
	parts := strings.Split(strings.Trim(href, "/"), "/")
	if len(parts) != 2 {
		return WebLink{}, false
	}

	var t media.Type
	switch parts[0] {
	case "movie":
		t = media.Movie
	case "tv":
		t = media.TV
	default:
		return WebLink{}, false
	}

	digits := parts[1]
	if i := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		digits = digits[:i]
	}
	id, err := strconv.Atoi(digits)
	if err != nil || id <= 0 {
		return WebLink{}, false
	}
	return WebLink{Type: t, ID: id}, true
}

// probeWeb resolves q through the web search page when it shows exactly one
// candidate. Outcomes, including misses, are kept in a bounded TTL cache;
// failed requests are not. A refresh skips the cached outcome and replaces it.
func (r *Resolver) probeWeb(ctx context.Context, q media.Query, refresh bool) *media.Record {
	if r.prober == nil || textutil.IsChinese(q.Name) {
		return nil
	}

	key := q.CacheKey()
	if rec, ok := r.probeCache.Get(key); ok && !refresh {
		if rec.IsNotFound() {
			return nil
		}
		return rec.Clone()
	}

	links, err := r.prober.Links(ctx, q.Name)
	if err != nil {
		r.drop(upstream("web search", err), q.Name)
		return nil
	}

	var rec *media.Record
	switch {
	case len(links) == 1:
		rec, err = r.details(ctx, links[0].Type, links[0].ID, "")
		if err != nil {
			r.drop(err, q.Name)
			return nil
		}
		if rec != nil && q.Type != "" && rec.Type != q.Type {
			r.logger.Debug().Str("name", q.Name).Str("want", string(q.Type)).Str("got", string(rec.Type)).
				Msg("Web search hit has the wrong type")
			rec = nil
		}
	case len(links) > 1:
		r.logger.Debug().Str("name", q.Name).Int("links", len(links)).Msg("Web search is ambiguous")
	}

	if rec == nil {
		r.probeCache.Set(key, media.NotFound())
		return nil
	}
	r.probeCache.Set(key, rec.Clone())
	r.logger.Info().Str("name", q.Name).Int("id", rec.ID).Str("type", string(rec.Type)).Msg("Resolved through web search")
	return rec
}
