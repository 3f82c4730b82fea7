package parser

import (
	"path/filepath"
	"strings"
)

// VideoExtensions contains supported video file extensions.
var VideoExtensions = map[string]bool{
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".ts":   true,
	".wmv":  true,
	".mov":  true,
	".webm": true,
	".flv":  true,
	".mpg":  true,
	".mpeg": true,
	".m2ts": true,
	".rmvb": true,
	".vob":  true,
	".iso":  true,
}

// SubtitleExtensions contains subtitle file extensions that travel with
// video files.
var SubtitleExtensions = map[string]bool{
	".srt": true,
	".ass": true,
	".ssa": true,
	".sub": true,
	".vtt": true,
	".sup": true,
}

// SampleFileIndicators are strings that indicate a file is a sample.
var SampleFileIndicators = []string{
	"sample",
	"trailer",
	"proof",
}

// IsVideoFile checks if a filename has a video extension.
func IsVideoFile(filename string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsSubtitleFile checks if a filename has a subtitle extension.
func IsSubtitleFile(filename string) bool {
	return SubtitleExtensions[strings.ToLower(filepath.Ext(filename))]
}

// IsMediaFile reports whether a file belongs to a title: a video that is
// not a sample, or a subtitle.
func IsMediaFile(filename string) bool {
	if IsSubtitleFile(filename) {
		return true
	}
	return IsVideoFile(filename) && !IsSampleFile(filepath.Base(filename))
}

// IsSampleFile checks if a filename indicates it's a sample file.
func IsSampleFile(filename string) bool {
	lower := strings.ToLower(filename)
	for _, indicator := range SampleFileIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}
