package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const maxFilenameBytes = 200

var (
	// Characters invalid in filenames on most filesystems, plus control characters
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f\x7f]`)
	multipleSpaces       = regexp.MustCompile(`\s+`)
)

// SanitizeFilename strips characters that are invalid in filenames or unsafe
// inside a quoted Content-Disposition value. Returns "" when nothing usable
// is left so the caller can pick its own default.
func SanitizeFilename(filename string) string {
	filename = strings.Map(func(r rune) rune {
		if r == '\r' || r == '\n' || r == '\t' {
			return ' '
		}
		return r
	}, filename)
	filename = invalidFilenameChars.ReplaceAllString(filename, "")
	filename = multipleSpaces.ReplaceAllString(filename, " ")
	filename = strings.TrimSpace(filename)

	if len(filename) > maxFilenameBytes {
		cut := maxFilenameBytes
		for cut > 0 && !utf8.RuneStart(filename[cut]) {
			cut--
		}
		filename = strings.TrimSpace(filename[:cut])
	}

	// Names made only of dots would resolve to a directory.
	if strings.Trim(filename, ".") == "" {
		return ""
	}
	return filename
}
