package utils

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "mis_libros", "mis_libros"},
		{"invalid characters", `a<b>c:d"e/f\g|h?i*j`, "abcdefghij"},
		{"newlines and tabs", "mis\nlibros\t2024", "mis libros 2024"},
		{"collapses spaces", "  mis    libros  ", "mis libros"},
		{"keeps accents", "biblioteca_año", "biblioteca_año"},
		{"quote injection", `x.xlsx"; filename="evil`, "x.xlsx; filename=evil"},
		{"only invalid", `<>:"`, ""},
		{"dots", "..", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeFilename(tt.in))
		})
	}
}

func TestSanitizeFilename_Truncates(t *testing.T) {
	long := strings.Repeat("ñ", 150) // 300 bytes

	got := SanitizeFilename(long)

	assert.LessOrEqual(t, len(got), maxFilenameBytes)
	assert.True(t, utf8.ValidString(got))
}
