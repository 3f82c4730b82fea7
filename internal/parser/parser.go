// Package parser turns release names, file names and folder names into
// resolver queries.
package parser

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"

	"github.com/reelid/reelid/internal/media"
)

// Parsed is the full result of parsing one name.
type Parsed struct {
	Title     string
	Year      int
	Season    int
	EndSeason int
	Episode   int
	IsTV      bool
}

// Query converts p into a resolver query. Names without TV markers get an
// unknown type.
func (p Parsed) Query() media.Query {
	q := media.Query{Name: p.Title, Year: p.Year, Season: p.Season}
	if p.IsTV {
		q.Type = media.TV
	}
	return q
}

var (
	// Show.S01E02 or Show.1x02
	tvPatternSE = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+[Ss](\d{1,2})[Ee](\d{1,4})(?:[Ee](\d{1,4}))?[\.\s_-]*(.*)$`)
	tvPatternX  = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+(\d{1,2})[xX](\d{1,3})[\.\s_-]*(.*)$`)

	// Show.S01-04 or Show.S01-S04
	tvPatternSeasonRange = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+[Ss](\d{1,2})-[Ss]?(\d{1,2})(?:[\.\s_-]|$)(.*)$`)

	// Show.S01 without an episode
	tvPatternSeasonPack = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+[Ss](\d{1,2})(?:[\.\s_-]|$)(.*)$`)

	// Show.Season.1 or Show Season 01
	tvPatternSeasonSpelled = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+[Ss]eason[\.\s_-]+(\d{1,2})(?:[\.\s_-]|$)(.*)$`)

	// Show.COMPLETE or Show.The.Complete.Series
	tvPatternComplete = regexp.MustCompile(`(?i)^(.+?)[\.\s_-]+(?:complete[\.\s_-]*(?:series)?|the[\.\s_-]+complete[\.\s_-]+series)(?:[\.\s_-]+(.*))?$`)

	// A bare season folder: "Season 2", "S02", "第2季"
	seasonFolder = regexp.MustCompile(`(?i)^(?:season[\.\s_-]*(\d{1,2})|s(\d{1,2})|第\s*([0-9一二三四五六七八九十]+)\s*季)$`)

	// Title.Year or Title (Year)
	moviePatternParen  = regexp.MustCompile(`^(.+?)\s*[\(\[](\d{4})[\)\]]\s*(.*)$`)
	moviePatternDot    = regexp.MustCompile(`^(.+?)[\.\s_-]+(\d{4})[\.\s_-]+(.*)$`)
	moviePatternSimple = regexp.MustCompile(`^(.+?)[\.\s_-]+(\d{4})$`)

	chineseSeason  = regexp.MustCompile(`第\s*([0-9一二三四五六七八九十]+)\s*季`)
	chineseEpisode = regexp.MustCompile(`第\s*([0-9一二三四五六七八九十]+)\s*[集话話]`)
	subtitleSeason = regexp.MustCompile(`(?i)第\s*([0-9一二三四五六七八九十]+)\s*季|\bS(\d{1,2})\b`)

	// Leading group tags such as "[字幕组]" or "【发布组】"
	leadingTags = regexp.MustCompile(`^(?:[\[【][^\]】]*[\]】][\s\.]*)+`)

	cleanupPattern = regexp.MustCompile(`[\.\s_-]+`)
)

// Parser implements the resolver's parsing collaborator.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse parses a release or file name. subtitle may carry a season marker
// that the name lacks.
func (p *Parser) Parse(raw, subtitle string) media.Query {
	parsed := ParseName(raw)
	if !parsed.IsTV || parsed.Season == 0 {
		if season := seasonIn(subtitle); season > 0 {
			parsed.IsTV = true
			parsed.Season = season
		}
	}
	return parsed.Query()
}

// ParsePath parses the base name of a file or folder. Roots parse to an
// empty query.
func (p *Parser) ParsePath(path string) media.Query {
	base := filepath.Base(path)
	if base == "." || base == string(filepath.Separator) {
		return media.Query{}
	}
	return ParseName(base).Query()
}

// ParseName parses one name. Known patterns are tried first; anything else
// goes through the generic release parser.
func ParseName(raw string) Parsed {
	name := strings.TrimSpace(raw)
	if IsVideoFile(name) || IsSubtitleFile(name) {
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	name = leadingTags.ReplaceAllString(name, "")

	if m := seasonFolder.FindStringSubmatch(name); m != nil {
		return Parsed{Season: firstNumber(m[1:]...), IsTV: true}
	}

	var cn Parsed
	if m := chineseSeason.FindStringSubmatch(name); m != nil {
		cn.Season, cn.IsTV = chineseNumber(m[1]), true
		name = chineseSeason.ReplaceAllString(name, " ")
	}
	if m := chineseEpisode.FindStringSubmatch(name); m != nil {
		cn.Episode, cn.IsTV = chineseNumber(m[1]), true
		name = chineseEpisode.ReplaceAllString(name, " ")
	}

	parsed := parsePatterns(strings.TrimSpace(name))
	if cn.IsTV {
		parsed.IsTV = true
		if parsed.Season == 0 {
			parsed.Season = cn.Season
		}
		if parsed.Episode == 0 {
			parsed.Episode = cn.Episode
		}
	}
	if parsed.IsTV && parsed.Season == 0 && parsed.Episode > 0 {
		parsed.Season = 1
	}
	return parsed
}

func parsePatterns(name string) Parsed {
	if match := tvPatternSE.FindStringSubmatch(name); match != nil {
		p := Parsed{IsTV: true}
		p.Title, p.Year = seriesTitle(match[1])
		p.Season, _ = strconv.Atoi(match[2])
		p.Episode, _ = strconv.Atoi(match[3])
		return p
	}

	if match := tvPatternX.FindStringSubmatch(name); match != nil {
		p := Parsed{IsTV: true}
		p.Title, p.Year = seriesTitle(match[1])
		p.Season, _ = strconv.Atoi(match[2])
		p.Episode, _ = strconv.Atoi(match[3])
		return p
	}

	// Ranges before single packs so that S01 does not match early.
	if match := tvPatternSeasonRange.FindStringSubmatch(name); match != nil {
		p := Parsed{IsTV: true}
		p.Title, p.Year = seriesTitle(match[1])
		p.Season, _ = strconv.Atoi(match[2])
		p.EndSeason, _ = strconv.Atoi(match[3])
		return p
	}

	if match := tvPatternSeasonPack.FindStringSubmatch(name); match != nil {
		p := Parsed{IsTV: true}
		p.Title, p.Year = seriesTitle(match[1])
		p.Season, _ = strconv.Atoi(match[2])
		return p
	}

	if match := tvPatternSeasonSpelled.FindStringSubmatch(name); match != nil {
		p := Parsed{IsTV: true}
		p.Title, p.Year = seriesTitle(match[1])
		p.Season, _ = strconv.Atoi(match[2])
		return p
	}

	if match := tvPatternComplete.FindStringSubmatch(name); match != nil {
		p := Parsed{IsTV: true}
		p.Title, p.Year = seriesTitle(match[1])
		return p
	}

	if match := moviePatternParen.FindStringSubmatch(name); match != nil {
		if year := plausibleYear(match[2]); year > 0 {
			return Parsed{Title: cleanTitle(match[1]), Year: year}
		}
	}

	if match := moviePatternDot.FindStringSubmatch(name); match != nil {
		if year := plausibleYear(match[2]); year > 0 {
			return Parsed{Title: cleanTitle(match[1]), Year: year}
		}
	}

	if match := moviePatternSimple.FindStringSubmatch(name); match != nil {
		if year := plausibleYear(match[2]); year > 0 {
			return Parsed{Title: cleanTitle(match[1]), Year: year}
		}
	}

	return parseRelease(name)
}

// parseRelease falls back to the generic scene release parser. Its title
// is only trusted when it recognized some release tag in name.
func parseRelease(name string) Parsed {
	rel := rls.ParseString(name)

	p := Parsed{Title: cleanTitle(name), Year: rel.Year}
	tagged := rel.Year > 0 || rel.Series > 0 || rel.Episode > 0 || rel.Resolution != "" || rel.Source != ""
	if tagged && rel.Title != "" {
		p.Title = cleanTitle(rel.Title)
	}
	if rel.Type == rls.Episode || rel.Type == rls.Series || rel.Series > 0 {
		p.IsTV = true
		p.Season = rel.Series
		p.Episode = rel.Episode
	}
	return p
}

// seriesTitle cleans a series title, moving a trailing "(2019)" or ".2019"
// into the year.
func seriesTitle(raw string) (string, int) {
	if match := moviePatternParen.FindStringSubmatch(raw); match != nil && match[3] == "" {
		if year := plausibleYear(match[2]); year > 0 {
			return cleanTitle(match[1]), year
		}
	}
	if match := moviePatternSimple.FindStringSubmatch(raw); match != nil {
		if year := plausibleYear(match[2]); year > 0 {
			return cleanTitle(match[1]), year
		}
	}
	return cleanTitle(raw), 0
}

func plausibleYear(s string) int {
	year, err := strconv.Atoi(s)
	if err != nil || year < 1900 || year > 2100 {
		return 0
	}
	return year
}

// cleanTitle replaces separators with spaces and trims leftover brackets.
func cleanTitle(title string) string {
	cleaned := cleanupPattern.ReplaceAllString(title, " ")
	return strings.Trim(cleaned, " []【】()")
}

func seasonIn(subtitle string) int {
	m := subtitleSeason.FindStringSubmatch(subtitle)
	if m == nil {
		return 0
	}
	return firstNumber(m[1:]...)
}

func firstNumber(groups ...string) int {
	for _, g := range groups {
		if g != "" {
			return chineseNumber(g)
		}
	}
	return 0
}

var chineseDigits = map[rune]int{
	'一': 1, '二': 2, '三': 3, '四': 4, '五': 5,
	'六': 6, '七': 7, '八': 8, '九': 9,
}

// chineseNumber reads arabic digits or Chinese numerals up to 99.
func chineseNumber(s string) int {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}

	n, tens := 0, false
	for _, r := range s {
		if r == '十' {
			if n == 0 {
				n = 1
			}
			n *= 10
			tens = true
			continue
		}
		d, ok := chineseDigits[r]
		if !ok {
			return 0
		}
		if tens {
			n += d
		} else {
			n = n*10 + d
		}
	}
	return n
}
