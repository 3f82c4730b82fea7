package metadata

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/reelid/reelid/internal/config"
	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/textutil"
)

//go:embed keywords.yaml
var defaultKeywordRules []byte

// KeywordRules tunes fragment filtering and scoring.
type KeywordRules struct {
	Blacklist []string `yaml:"blacklist"`
	Weights   struct {
		Small  []float64 `yaml:"small"`
		Medium []float64 `yaml:"medium"`
		Large  []float64 `yaml:"large"`
	} `yaml:"weights"`
	SimilarityThreshold float64  `yaml:"similarity_threshold"`
	DiffScoreThreshold  int      `yaml:"diff_score_threshold"`
	LeaderScore         int      `yaml:"leader_score"`
	EntityScore         float64  `yaml:"entity_score"`
	BingSelectors       []string `yaml:"bing_selectors"`
	BingEntityTitle     string   `yaml:"bing_entity_title"`
	BingMovieMarker     string   `yaml:"bing_movie_marker"`
	BaiduSelector       string   `yaml:"baidu_selector"`
}

// LoadKeywordRules reads rules from path, or the built-in rules when path is
// empty.
func LoadKeywordRules(path string) (*KeywordRules, error) {
	data := defaultKeywordRules
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("failed to read keyword rules: %w", err)
		}
	}

	var rules KeywordRules
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse keyword rules: %w", err)
	}
	if err := rules.validate(); err != nil {
		return nil, err
	}
	return &rules, nil
}

func (r *KeywordRules) validate() error {
	switch {
	case len(r.Weights.Small) != 2:
		return errors.New("keyword rules: weights.small needs 2 values")
	case len(r.Weights.Medium) != 3:
		return errors.New("keyword rules: weights.medium needs 3 values")
	case len(r.Weights.Large) != 5:
		return errors.New("keyword rules: weights.large needs 5 values")
	case len(r.BingSelectors) == 0 || r.BaiduSelector == "":
		return errors.New("keyword rules: selectors are required")
	}
	return nil
}

// weight returns the score of the fragment at position i of n.
func (r *KeywordRules) weight(i, n int) float64 {
	switch {
	case n < 5:
		if i < 2 {
			return r.Weights.Small[0]
		}
		return r.Weights.Small[1]
	case n < 10:
		switch {
		case i < 2:
			return r.Weights.Medium[0]
		case i < n>>1:
			return r.Weights.Medium[1]
		default:
			return r.Weights.Medium[2]
		}
	default:
		switch {
		case i < 2:
			return r.Weights.Large[0]
		case i < n>>2:
			return r.Weights.Large[1]
		case i < n>>1:
			return r.Weights.Large[2]
		case i < n>>2+n>>1:
			return r.Weights.Large[3]
		default:
			return r.Weights.Large[4]
		}
	}
}

// releaseGroupPrefix matches a leading subtitle group tag such as "某某字幕组".
var releaseGroupPrefix = regexp.MustCompile(`^[\p{L}\p{N}_]+字幕[组社]?`)

// KeywordExtractor recovers a searchable title from two general search
// engines when the catalog knows nothing about the raw name.
type KeywordExtractor struct {
	httpClient *http.Client
	bingURL    string
	baiduURL   string
	rules      *KeywordRules
	blacklist  []string
	logger     zerolog.Logger
}

// NewKeywordExtractor creates an extractor. rules must have been loaded with
// LoadKeywordRules.
func NewKeywordExtractor(cfg config.KeywordConfig, rules *KeywordRules, logger *zerolog.Logger) *KeywordExtractor {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	blacklist := append([]string(nil), rules.Blacklist...)
	sort.SliceStable(blacklist, func(i, j int) bool {
		return len(blacklist[i]) > len(blacklist[j])
	})

	return &KeywordExtractor{
		httpClient: &http.Client{Timeout: timeout},
		bingURL:    cfg.BingURL,
		baiduURL:   cfg.BaiduURL,
		rules:      rules,
		blacklist:  blacklist,
		logger:     logger.With().Str("component", "keyword").Logger(),
	}
}

// Clean strips the release group tag and blacklisted tokens from name.
func (e *KeywordExtractor) Clean(name string) string {
	name = releaseGroupPrefix.ReplaceAllString(name, "")
	for _, token := range e.blacklist {
		name = strings.ReplaceAll(name, token, " ")
	}
	return strings.Join(strings.Fields(name), " ")
}

// Extract searches both engines for name and returns the best scoring
// fragment. ok is false when nothing usable came back.
func (e *KeywordExtractor) Extract(ctx context.Context, name string) (kw media.Keyword, ok bool) {
	cleaned := e.Clean(name)
	if cleaned == "" {
		return media.Keyword{}, false
	}

	var (
		bing        []string
		entity      string
		likelyMovie bool
		baidu       []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		doc, err := fetchDocument(gctx, e.httpClient, e.bingURL+"?q="+url.QueryEscape(cleaned)+"&qs=n&form=QBRE&sp=-1")
		if err != nil {
			e.logger.Warn().Err(err).Str("name", cleaned).Msg("Bing search failed")
			return nil
		}
		bing = e.fragments(doc, strings.Join(e.rules.BingSelectors, ", "), cleaned)
		if len(bing) > 0 {
			entity, likelyMovie = e.entity(doc)
		}
		return nil
	})
	g.Go(func() error {
		doc, err := fetchDocument(gctx, e.httpClient, e.baiduURL+"?ie=utf-8&tn=baiduhome_pg&wd="+url.QueryEscape(cleaned))
		if err != nil {
			e.logger.Warn().Err(err).Str("name", cleaned).Msg("Baidu search failed")
			return nil
		}
		baidu = e.fragments(doc, e.rules.BaiduSelector, cleaned)
		return nil
	})
	_ = g.Wait()

	board := newScoreboard()
	if entity != "" {
		board.add(entity, e.rules.EntityScore)
	}
	e.score(board, bing)
	e.score(board, baidu)

	ranked := board.ranked()
	if len(ranked) == 0 {
		e.logger.Debug().Str("name", cleaned).Msg("No keyword fragments found")
		return media.Keyword{}, false
	}

	top := ranked
	if len(top) > 4 {
		top = top[:4]
	}
	e.logger.Debug().Str("name", cleaned).Interface("top", top).Msg("Keyword fragments scored")

	keyword := e.choose(ranked)
	e.logger.Info().Str("name", name).Str("keyword", keyword).Bool("likelyMovie", likelyMovie).
		Msg("Extracted supplemental keyword")
	return media.Keyword{Text: keyword, LikelyMovie: likelyMovie}, true
}

// fragments returns the texts under selector that resemble name.
func (e *KeywordExtractor) fragments(doc *goquery.Document, selector, name string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		if textutil.Ratio(name, text) > e.rules.SimilarityThreshold {
			out = append(out, text)
		}
	})
	return out
}

var trailingYear = regexp.MustCompile(`\s*\(\d{4}\)$`)

// entity reads the knowledge panel title and whether the panel is a movie.
func (e *KeywordExtractor) entity(doc *goquery.Document) (string, bool) {
	title := strings.TrimSpace(doc.Find(e.rules.BingEntityTitle).First().Text())
	if title == "" {
		return "", false
	}
	title = trailingYear.ReplaceAllString(title, "")
	return title, e.rules.BingMovieMarker != "" && doc.Find(e.rules.BingMovieMarker).Length() > 0
}

func (e *KeywordExtractor) score(board *scoreboard, fragments []string) {
	for i, f := range fragments {
		board.add(f, e.rules.weight(i, len(fragments)))
	}
}

// choose picks between the two best fragments. When the runner-up merely
// extends the leader, the leader wins if it scored high, leads by a wide
// margin, or the runner-up is the leader repeated; otherwise the longer
// runner-up is kept.
func (e *KeywordExtractor) choose(ranked []scoredFragment) string {
	if len(ranked) == 1 {
		return ranked[0].Text
	}
	leader, next := ranked[0], ranked[1]
	if !strings.Contains(next.Text, leader.Text) {
		return leader.Text
	}

	switch {
	case textutil.IsNumeric(leader.Text):
		// A bare number is almost never the title.
		return next.Text
	case int(leader.Score) >= e.rules.LeaderScore:
		return leader.Text
	case int(leader.Score)-int(next.Score) > e.rules.DiffScoreThreshold:
		return leader.Text
	case strings.TrimSpace(strings.Replace(next.Text, leader.Text, "", 1)) == leader.Text:
		return leader.Text
	default:
		return next.Text
	}
}

type scoredFragment struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// scoreboard accumulates scores per lowercase fragment and remembers the
// order fragments were first seen in, which breaks score ties.
type scoreboard struct {
	order  []string
	scores map[string]float64
}

func newScoreboard() *scoreboard {
	return &scoreboard{scores: make(map[string]float64)}
}

func (b *scoreboard) add(text string, score float64) {
	key := strings.ToLower(text)
	if _, ok := b.scores[key]; !ok {
		b.order = append(b.order, key)
	}
	b.scores[key] += score
}

func (b *scoreboard) ranked() []scoredFragment {
	out := make([]scoredFragment, len(b.order))
	for i, k := range b.order {
		out[i] = scoredFragment{Text: k, Score: b.scores[k]}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}

// searchKeyword is the last resort: it asks the search engines what the
// name probably means and searches the catalog again with that. A refresh
// extracts the keyword again instead of reading the keyword cache.
func (r *Resolver) searchKeyword(ctx context.Context, q media.Query, refresh bool) *media.Record {
	if r.extractor == nil || !r.opts.SearchKeyword {
		return nil
	}

	var (
		kw  media.Keyword
		ok  bool
		err error
	)
	if !refresh {
		kw, ok, err = r.keywords.GetKeyword(ctx, q.Name)
		if err != nil {
			r.logger.Warn().Err(err).Str("name", q.Name).Msg("Failed to read keyword cache")
		}
	}
	if !ok {
		kw, ok = r.extractor.Extract(ctx, q.Name)
		if !ok {
			return nil
		}
		if err := r.keywords.SetKeyword(ctx, q.Name, kw); err != nil {
			r.logger.Warn().Err(err).Str("name", q.Name).Msg("Failed to write keyword cache")
		}
	}
	if kw.Text == "" {
		return nil
	}

	if kw.LikelyMovie {
		return r.searchMovie(ctx, kw.Text, 0)
	}
	return r.searchMulti(ctx, kw.Text)
}
