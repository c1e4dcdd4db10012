package importers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookshelf/internal/entities"
)

const goodreadsHeader = "Book Id,Title,Author,Author l-f,Additional Authors,ISBN,ISBN13,My Rating,Average Rating," +
	"Publisher,Binding,Number of Pages,Year Published,Original Publication Year,Date Read,Date Added," +
	"Bookshelves,Bookshelves with positions,Exclusive Shelf,My Review,Spoiler,Private Notes,Read Count,Owned Copies\n"

func TestParseGoodreadsCSV_MapsColumns(t *testing.T) {
	csv := goodreadsHeader +
		`234225,Dune,Frank Herbert,"Herbert, Frank",,"=""0441172717""","=""9780441172719""",5,4.27,Ace Books,Mass Market Paperback,,1990,1965,2023/11/02,2023/01/15,"sci-fi, classics, read","sci-fi (#3), read (#120)",read,Spice must flow,,,1,1` + "\n" +
		`5107,The Left Hand of Darkness,Ursula K. Le Guin,"Le Guin, Ursula K.",,,,0,4.09,Ace,Kindle Edition,304,2000,1969,,2024/02/10,currently-reading,currently-reading (#1),currently-reading,,,,0,0` + "\n" +
		`9999,Piranesi,,,,,,0,4.2,,Hardcover,272,2020,2020,,,,,to-read,,,,0,0` + "\n"

	books, warnings, err := ParseGoodreadsCSV(strings.NewReader(csv))

	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, books, 3)

	dune := books[0]
	assert.Equal(t, "Dune", dune.Title)
	assert.Equal(t, "Frank Herbert", dune.Author)
	assert.Equal(t, 0, dune.Pages)
	assert.Equal(t, "sci-fi, classics", dune.Genre)
	assert.Equal(t, entities.StatusRead, dune.Status)
	assert.Equal(t, 5, dune.Rating)
	assert.Equal(t, "Spice must flow", dune.Notes)
	assert.Equal(t, "2023-11-02", dune.DateRead)
	assert.Equal(t, "2023-01-15", dune.DateAdded)
	assert.True(t, dune.Physical)
	assert.True(t, dune.NeedsEnrichment)

	lhod := books[1]
	assert.Equal(t, 304, lhod.Pages)
	assert.Equal(t, entities.StatusReading, lhod.Status)
	assert.Empty(t, lhod.Genre)
	assert.False(t, lhod.Physical)

	piranesi := books[2]
	assert.Equal(t, entities.DefaultAuthor, piranesi.Author)
	assert.Equal(t, entities.StatusToRead, piranesi.Status)
	assert.Equal(t, entities.Today(), piranesi.DateAdded)
}

func TestParseGoodreadsCSV_HeaderIsCaseInsensitive(t *testing.T) {
	csv := "\ufefftitle,AUTHOR,exclusive shelf,my rating\nSolaris,Stanislaw Lem,read,9\n"

	books, _, err := ParseGoodreadsCSV(strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "Solaris", books[0].Title)
	assert.Equal(t, "Stanislaw Lem", books[0].Author)
	assert.Equal(t, entities.StatusRead, books[0].Status)
	assert.Equal(t, 5, books[0].Rating)
}

func TestParseGoodreadsCSV_SkipsRowsWithoutTitle(t *testing.T) {
	csv := "Title,Author\n,Nobody\nKindred,Octavia E. Butler\n"

	books, warnings, err := ParseGoodreadsCSV(strings.NewReader(csv))

	require.NoError(t, err)
	require.Len(t, books, 1)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "Line 2")
}

func TestParseGoodreadsCSV_MissingTitleColumn(t *testing.T) {
	_, _, err := ParseGoodreadsCSV(strings.NewReader("Name,Writer\nDune,Herbert\n"))

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestParseGoodreadsCSV_Empty(t *testing.T) {
	_, _, err := ParseGoodreadsCSV(strings.NewReader(""))

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
}

func TestStatusFromShelf(t *testing.T) {
	assert.Equal(t, entities.StatusRead, statusFromShelf("read"))
	assert.Equal(t, entities.StatusReading, statusFromShelf("currently-reading"))
	assert.Equal(t, entities.StatusToRead, statusFromShelf("to-read"))
	assert.Equal(t, entities.StatusToRead, statusFromShelf(""))
	assert.Equal(t, entities.StatusRead, statusFromShelf("Leido"))
}
