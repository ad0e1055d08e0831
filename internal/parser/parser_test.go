package parser_test

import (
	"strings"
	"testing"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sviatoweb/films-locations/internal/parser"
)

// buildListing prepends the fixed 14-line header to the given data lines.
func buildListing(lines ...string) string {
	var sb strings.Builder
	for i := 0; i < 14; i++ {
		sb.WriteString("LOCATIONS LIST HEADER\n")
	}
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("takes the last tab field as the location", func(t *testing.T) {
		t.Parallel()

		input := buildListing("Film A (2013)\t(fictional place)\tRealAddress, City")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, "Film A (2013)", films[0].Title)
		assert.Equal(t, []string{"RealAddress, City"}, films[0].Locations)
	})

	t.Run("steps back when the last field is a parenthetical annotation", func(t *testing.T) {
		t.Parallel()

		input := buildListing("Film B (2013)\tLos Angeles, California, USA\t(studio)")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, []string{"Los Angeles, California, USA"}, films[0].Locations)
	})

	t.Run("merges repeated titles preserving line order", func(t *testing.T) {
		t.Parallel()

		input := buildListing(
			"Film C (2010)\tParis, France",
			"Another Film (2011)\tBerlin, Germany",
			"Film C (2010)\tLondon, UK",
		)

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 2)
		assert.Equal(t, "Film C (2010)", films[0].Title)
		assert.Equal(t, []string{"Paris, France", "London, UK"}, films[0].Locations)
		assert.Equal(t, "Another Film (2011)", films[1].Title)
	})

	t.Run("retains duplicate locations within one film", func(t *testing.T) {
		t.Parallel()

		input := buildListing(
			"Film D (2012)\tRome, Italy",
			"Film D (2012)\tRome, Italy",
		)

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, []string{"Rome, Italy", "Rome, Italy"}, films[0].Locations)
	})

	t.Run("line without tabs does not crash", func(t *testing.T) {
		t.Parallel()

		input := buildListing("just a bare title")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, "just a bare title", films[0].Title)
		assert.Equal(t, []string{"just a bare title"}, films[0].Locations)
	})

	t.Run("single parenthetical field does not crash", func(t *testing.T) {
		t.Parallel()

		input := buildListing("(1999)")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, []string{"(1999)"}, films[0].Locations)
	})

	t.Run("empty line contributes an empty location", func(t *testing.T) {
		t.Parallel()

		input := buildListing("")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, "", films[0].Title)
		assert.Equal(t, []string{""}, films[0].Locations)
	})

	t.Run("skips lines that are not valid UTF-8", func(t *testing.T) {
		t.Parallel()

		input := buildListing(
			"Good Film (2005)\tMadrid, Spain",
			"Broken \xff\xfe Film\tNowhere",
			"Other Film (2006)\tLisbon, Portugal",
		)

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 2)
		assert.Equal(t, "Good Film (2005)", films[0].Title)
		assert.Equal(t, "Other Film (2006)", films[1].Title)
	})

	t.Run("trims surrounding whitespace from locations", func(t *testing.T) {
		t.Parallel()

		input := buildListing("Film E (2014)\t  Oslo, Norway  ")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, []string{"Oslo, Norway"}, films[0].Locations)
	})

	t.Run("file shorter than the header yields nothing", func(t *testing.T) {
		t.Parallel()

		films, err := parser.Parse(strings.NewReader("only\nthree\nlines\n"))

		require.NoError(t, err)
		assert.Empty(t, films)
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		t.Parallel()

		input := strings.ReplaceAll(buildListing("Film F (2015)\tDublin, Ireland"), "\n", "\r\n")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, []string{"Dublin, Ireland"}, films[0].Locations)
	})

	t.Run("last line without trailing newline is parsed", func(t *testing.T) {
		t.Parallel()

		input := strings.TrimSuffix(buildListing("Film G (2016)\tVienna, Austria"), "\n")

		films, err := parser.Parse(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, []string{"Vienna, Austria"}, films[0].Locations)
	})
}

func TestParse_YearExtraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		year  int
	}{
		{name: "plain year", title: "Film (2013)\tSomewhere", year: 2013},
		{name: "disambiguated year", title: "Film (2013/I)\tSomewhere", year: 2013},
		{name: "quoted series title", title: "\"Series\" (2006) {Pilot (#1.1)}\tSomewhere", year: 2006},
		{name: "unknown year", title: "Film (????)\tSomewhere", year: 0},
		{name: "no annotation", title: "Film without year\tSomewhere", year: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			films, err := parser.Parse(strings.NewReader(buildListing(tt.title)))

			require.NoError(t, err)
			require.Len(t, films, 1)
			assert.Equal(t, tt.year, films[0].Year)
		})
	}
}

func TestParseFile(t *testing.T) {
	defer filet.CleanUp(t)

	t.Run("reads a listing from disk", func(t *testing.T) {
		file := filet.TmpFile(t, "", buildListing("Film H (2017)\tPrague, Czech Republic"))

		films, err := parser.ParseFile(file.Name())

		require.NoError(t, err)
		require.Len(t, films, 1)
		assert.Equal(t, "Film H (2017)", films[0].Title)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		films, err := parser.ParseFile("does-not-exist.list")

		require.Error(t, err)
		assert.Nil(t, films)
		assert.Contains(t, err.Error(), "failed to open locations file")
	})
}
