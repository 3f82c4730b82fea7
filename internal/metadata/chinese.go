package metadata

import (
	"context"
	"strings"

	"github.com/reelid/reelid/internal/media"
	"github.com/reelid/reelid/internal/metadata/tmdb"
	"github.com/reelid/reelid/internal/textutil"
)

const chineseLanguage = "zh-CN"

func wantsChinese(language string) bool {
	return strings.EqualFold(language, chineseLanguage)
}

// chineseTitle returns the first mainland title already written in
// simplified characters.
func chineseTitle(titles []media.AlternateTitle) string {
	for _, t := range titles {
		if !strings.EqualFold(t.Region, "CN") {
			continue
		}
		if textutil.IsSimplifiedChinese(t.Title) {
			return t.Title
		}
	}
	return ""
}

// localizeTitle replaces a non-Chinese display title with the record's
// simplified Chinese alternate title, fetching alternate titles when the
// record was resolved without them. It reports whether the title changed.
func (r *Resolver) localizeTitle(ctx context.Context, rec *media.Record) bool {
	if rec.IsNotFound() || textutil.IsChinese(rec.Title) {
		return false
	}

	titles := rec.AlternateTitles
	if len(titles) == 0 {
		var ok bool
		if titles, ok = r.fetchAltTitles(ctx, rec.Type, rec.ID); !ok {
			return false
		}
	}

	cn := chineseTitle(titles)
	if cn == "" || cn == rec.Title {
		return false
	}
	r.logger.Debug().Int("id", rec.ID).Str("from", rec.Title).Str("to", cn).Msg("Using Chinese title")
	rec.Title = cn
	return true
}

// fetchAltTitles loads alternate titles, remembering them for a while so
// that repeated resolutions of the same record stay local.
func (r *Resolver) fetchAltTitles(ctx context.Context, t media.Type, id int) ([]media.AlternateTitle, bool) {
	key := altTitleKey(t, id)
	if titles, ok := r.altTitleCache.Get(key); ok {
		return titles, true
	}

	alts, err := r.catalog.GetAlternativeTitles(ctx, string(t), id)
	if err != nil {
		r.drop(upstream("alternative titles", err), key)
		return nil, false
	}
	titles := alternateTitles(alts)
	if titles == nil {
		titles = []media.AlternateTitle{}
	}
	r.altTitleCache.Set(key, titles)
	return titles, true
}

// PersonChineseName returns the Chinese name of a person: the only Chinese
// alias when there is one, otherwise the first simplified Chinese alias.
func (r *Resolver) PersonChineseName(ctx context.Context, id int) (string, error) {
	person, err := r.person(ctx, id)
	if err != nil || person == nil {
		return "", err
	}

	var chinese []string
	for _, aka := range person.AlsoKnownAs {
		if textutil.IsChinese(aka) {
			chinese = append(chinese, aka)
		}
	}
	if len(chinese) == 1 {
		return chinese[0], nil
	}
	for _, aka := range chinese {
		if textutil.IsSimplifiedChinese(aka) {
			return aka, nil
		}
	}
	return "", nil
}

// PersonAKANames returns every alias of a person.
func (r *Resolver) PersonAKANames(ctx context.Context, id int) ([]string, error) {
	person, err := r.person(ctx, id)
	if err != nil || person == nil {
		return nil, err
	}
	return person.AlsoKnownAs, nil
}

func (r *Resolver) person(ctx context.Context, id int) (*tmdb.PersonDetails, error) {
	if err := r.ready(); err != nil {
		return nil, err
	}
	if id <= 0 {
		return nil, ErrInvalidArgument
	}
	person, err := r.catalog.GetPerson(ctx, id)
	if err != nil {
		r.drop(upstream("person", err), "")
		return nil, nil
	}
	return person, nil
}
