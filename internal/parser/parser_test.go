package parser

import (
	"testing"

	"github.com/reelid/reelid/internal/media"
)

func TestParseName_TVShow(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		wantTitle  string
		wantYear   int
		wantSeason int
		wantEp     int
	}{
		{
			name:       "standard S01E02 format",
			filename:   "Breaking.Bad.S01E02.1080p.BluRay.x264.mkv",
			wantTitle:  "Breaking Bad",
			wantSeason: 1,
			wantEp:     2,
		},
		{
			name:       "lowercase s03e15",
			filename:   "the.office.s03e15.720p.hdtv.mkv",
			wantTitle:  "the office",
			wantSeason: 3,
			wantEp:     15,
		},
		{
			name:       "with spaces in title",
			filename:   "The Walking Dead S10E05 720p.mkv",
			wantTitle:  "The Walking Dead",
			wantSeason: 10,
			wantEp:     5,
		},
		{
			name:       "with underscores",
			filename:   "Stranger_Things_S04E09_1080p.mkv",
			wantTitle:  "Stranger Things",
			wantSeason: 4,
			wantEp:     9,
		},
		{
			name:       "1x02 format",
			filename:   "Show.Name.1x02.HDTV.mkv",
			wantTitle:  "Show Name",
			wantSeason: 1,
			wantEp:     2,
		},
		{
			name:       "year in series title",
			filename:   "Show (2019) S02E03.mkv",
			wantTitle:  "Show",
			wantYear:   2019,
			wantSeason: 2,
			wantEp:     3,
		},
		{
			name:       "Chinese season and episode",
			filename:   "[字幕组] 某剧 第二季 第03集.mp4",
			wantTitle:  "某剧",
			wantSeason: 2,
			wantEp:     3,
		},
		{
			name:       "Chinese episode without season",
			filename:   "某剧 第5集.mp4",
			wantTitle:  "某剧",
			wantSeason: 1,
			wantEp:     5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseName(tt.filename)

			if !result.IsTV {
				t.Errorf("IsTV = false, want true")
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if result.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", result.Year, tt.wantYear)
			}
			if result.Season != tt.wantSeason {
				t.Errorf("Season = %d, want %d", result.Season, tt.wantSeason)
			}
			if result.Episode != tt.wantEp {
				t.Errorf("Episode = %d, want %d", result.Episode, tt.wantEp)
			}
		})
	}
}

func TestParseName_SeasonPacks(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantTitle     string
		wantSeason    int
		wantEndSeason int
	}{
		{"single season pack", "Breaking.Bad.S02.1080p.BluRay", "Breaking Bad", 2, 0},
		{"season range", "The.Office.S01-S09.Complete", "The Office", 1, 9},
		{"spelled season", "Friends Season 3", "Friends", 3, 0},
		{"season folder", "Season 2", "", 2, 0},
		{"short season folder", "S03", "", 3, 0},
		{"Chinese season folder", "第十二季", "", 12, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseName(tt.input)

			if !result.IsTV {
				t.Errorf("IsTV = false, want true")
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if result.Season != tt.wantSeason {
				t.Errorf("Season = %d, want %d", result.Season, tt.wantSeason)
			}
			if result.EndSeason != tt.wantEndSeason {
				t.Errorf("EndSeason = %d, want %d", result.EndSeason, tt.wantEndSeason)
			}
		})
	}
}

func TestParseName_Movie(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantTitle string
		wantYear  int
	}{
		{"dotted release", "The.Matrix.1999.1080p.BluRay.x264.mkv", "The Matrix", 1999},
		{"parenthesized year", "The Matrix (1999).mkv", "The Matrix", 1999},
		{"bracketed year", "Inception [2010]", "Inception", 2010},
		{"trailing year", "流浪地球.2019.mkv", "流浪地球", 2019},
		{"folder name", "Blade Runner 2049 (2017)", "Blade Runner 2049", 2017},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ParseName(tt.filename)

			if result.IsTV {
				t.Errorf("IsTV = true, want false")
			}
			if result.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", result.Title, tt.wantTitle)
			}
			if result.Year != tt.wantYear {
				t.Errorf("Year = %d, want %d", result.Year, tt.wantYear)
			}
		})
	}
}

func TestParser_ParseWithSubtitle(t *testing.T) {
	p := New()

	q := p.Parse("The.Show.2019.1080p", "第三季")
	if q.Type != media.TV {
		t.Errorf("Type = %q, want %q", q.Type, media.TV)
	}
	if q.Season != 3 {
		t.Errorf("Season = %d, want 3", q.Season)
	}
	if q.Name != "The Show" || q.Year != 2019 {
		t.Errorf("Name, Year = %q, %d, want \"The Show\", 2019", q.Name, q.Year)
	}

	q = p.Parse("Show.S02E01.mkv", "S05")
	if q.Season != 2 {
		t.Errorf("subtitle overrode explicit season: got %d", q.Season)
	}

	q = p.Parse("The Matrix (1999)", "")
	if q.Type != "" {
		t.Errorf("Type = %q, want unknown", q.Type)
	}
}

func TestParser_ParsePath(t *testing.T) {
	q := New().ParsePath("/media/movies/Inception (2010)/Inception.2010.1080p.mkv")
	if q.Name != "Inception" || q.Year != 2010 {
		t.Errorf("ParsePath = %+v", q)
	}
}

func TestChineseNumber(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"3", 3},
		{"05", 5},
		{"三", 3},
		{"十", 10},
		{"十二", 12},
		{"二十", 20},
		{"二十三", 23},
		{"季", 0},
	}
	for _, tt := range tests {
		if got := chineseNumber(tt.in); got != tt.want {
			t.Errorf("chineseNumber(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestIsMediaFile(t *testing.T) {
	tests := []struct {
		filename string
		want     bool
	}{
		{"movie.mkv", true},
		{"movie.RMVB", true},
		{"movie.srt", true},
		{"movie.ASS", true},
		{"movie.nfo", false},
		{"movie.sample.mkv", false},
		{"trailer.mp4", false},
		{"movie", false},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			if got := IsMediaFile(tt.filename); got != tt.want {
				t.Errorf("IsMediaFile(%q) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}
