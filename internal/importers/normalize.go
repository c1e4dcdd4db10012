package importers

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mrlokans/bookshelf/internal/entities"
)

var (
	readKeywords    = []string{"leido", "read", "terminado", "finished"}
	readingKeywords = []string{"leyendo", "reading", "actual", "current"}
	digitalKeywords = []string{"digital", "ebook", "pdf", "kindle"}
)

// dateLayouts are tried in order for free-text date cells.
var dateLayouts = []string{
	entities.DateLayout,
	"2006/01/02",
	"2006-1-2",
	"2006/1/2",
	"01/02/2006",
	"1/2/2006",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
	"January 2006",
}

// ParseStatus maps a free-text status cell onto a reading state by keyword
// containment on the lowercased text. Read keywords win over reading ones,
// so "Currently reading" is read; anything unrecognised is toread.
func ParseStatus(value any) entities.Status {
	if !truthy(value) {
		return entities.StatusToRead
	}
	s := strings.ToLower(strings.TrimSpace(cellString(value)))
	if containsAny(s, readKeywords) {
		return entities.StatusRead
	}
	if containsAny(s, readingKeywords) {
		return entities.StatusReading
	}
	return entities.StatusToRead
}

// ParsePhysical is false only for values naming a digital format.
func ParsePhysical(value any) bool {
	s := foldValue(value)
	if s == "" {
		return true
	}
	return !containsAny(s, digitalKeywords)
}

// ParseRating reads the leading integer of value and clamps it to [0, 5].
func ParseRating(value any) int {
	n, ok := leadingInt(value)
	if !ok {
		return 0
	}
	return entities.ClampRating(n)
}

// ParsePages reads the leading integer of value, defaulting to 200 when it is
// missing or not positive.
func ParsePages(value any) int {
	n, ok := leadingInt(value)
	if !ok || n <= 0 {
		return entities.DefaultPages
	}
	return n
}

// ParseDate converts a date cell into an ISO date. Native times, spreadsheet
// serial numbers and common textual layouts are accepted; anything else is "".
func ParseDate(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.Format(entities.DateLayout)
	case float64:
		return serialToDate(v)
	case int:
		return serialToDate(float64(v))
	case int64:
		return serialToDate(float64(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return ""
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(entities.DateLayout)
			}
		}
	}
	return ""
}

func serialToDate(serial float64) string {
	if serial <= 0 {
		return ""
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return ""
	}
	return t.Format(entities.DateLayout)
}

// leadingInt mimics a lenient integer parse: numbers are truncated, strings
// yield their leading (optionally signed) digits.
func leadingInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(math.Trunc(v)), true
	case int:
		return v, true
	case int64:
		return int(v), true
	case string:
		s := strings.TrimSpace(v)
		end := 0
		if end < len(s) && (s[end] == '-' || s[end] == '+') {
			end++
		}
		start := end
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		if end == start {
			return 0, false
		}
		n, err := strconv.Atoi(s[:end])
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// cellString renders any cell value as text.
func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format(entities.DateLayout)
	default:
		return fmt.Sprint(v)
	}
}

// truthy reports whether a cell carries a value at all.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case string:
		return v != ""
	case float64:
		return v != 0 && !math.IsNaN(v)
	case int:
		return v != 0
	case int64:
		return v != 0
	case bool:
		return v
	case time.Time:
		return !v.IsZero()
	}
	return true
}

// textValue returns the trimmed text of a cell, or "" for empty cells.
func textValue(value any) string {
	if !truthy(value) {
		return ""
	}
	return strings.TrimSpace(cellString(value))
}

// foldValue lowercases and strips diacritics.
func foldValue(value any) string {
	if !truthy(value) {
		return ""
	}
	s := strings.ToLower(strings.TrimSpace(cellString(value)))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return folded
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
