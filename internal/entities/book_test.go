package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, LabelRead, StatusRead.Label())
	assert.Equal(t, LabelReading, StatusReading.Label())
	assert.Equal(t, LabelToRead, StatusToRead.Label())
	assert.Equal(t, LabelToRead, Status("abandoned").Label())

	assert.True(t, StatusReading.Valid())
	assert.False(t, Status("").Valid())
	assert.False(t, Status("Read").Valid())
}

func TestFormatLabel(t *testing.T) {
	assert.Equal(t, LabelPhysical, FormatLabel(true))
	assert.Equal(t, LabelDigital, FormatLabel(false))
}

func TestClampRating(t *testing.T) {
	for in, want := range map[int]int{-3: 0, 0: 0, 3: 3, 5: 5, 9: 5} {
		assert.Equal(t, want, ClampRating(in), in)
	}
}

func TestTitleKey(t *testing.T) {
	assert.Equal(t, TitleKey("Cien Años de Soledad"), TitleKey("cien años de soledad"))
	assert.Equal(t, "dune", TitleKey("DUNE"))
	assert.NotEqual(t, TitleKey("Dune "), TitleKey("Dune"), "only case is folded")
}

func TestMatchesSearch(t *testing.T) {
	book := Book{Title: "Kindred", Author: "Octavia E. Butler"}

	assert.True(t, book.MatchesSearch(""))
	assert.True(t, book.MatchesSearch("kind"))
	assert.True(t, book.MatchesSearch("BUTLER"))
	assert.False(t, book.MatchesSearch("dune"))
}
