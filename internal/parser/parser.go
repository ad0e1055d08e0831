// Package parser reads the fixed-format film locations listing.
package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sviatoweb/films-locations/internal/models"
)

// headerLines is the fixed number of metadata lines preceding the data section.
const headerLines = 14

// yearPattern matches the "(YYYY)" production year annotation inside a title,
// including the "(YYYY/I)" disambiguation form.
var yearPattern = regexp.MustCompile(`\((\d{4})[/)]`)

// ParseFile opens the listing at path and parses it. See Parse.
func ParseFile(path string) ([]models.Film, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open locations file: %w", err)
	}
	defer file.Close()

	films, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return films, nil
}

// Parse reads a film locations listing: a 14-line header followed by
// tab-separated data lines. The first field of a data line is the film title.
// The location is the last field, unless that field is a parenthetical
// annotation such as "(studio)", in which case the second-to-last field is
// used. Lines that are not valid UTF-8 are skipped silently as a deliberate
// best-effort policy. Films keep their encounter order, and repeated titles
// merge their locations under the first occurrence.
//
// Only read failures are reported; no individual line is ever fatal.
func Parse(r io.Reader) ([]models.Film, error) {
	reader := bufio.NewReader(r)

	for i := 0; i < headerLines; i++ {
		if _, err := reader.ReadBytes('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				// The whole file is header. Nothing to parse.
				return nil, nil
			}
			return nil, fmt.Errorf("failed to skip header: %w", err)
		}
	}

	var films []models.Film
	index := make(map[string]int)

	for {
		line, err := reader.ReadBytes('\n')
		if len(line) > 0 && utf8.Valid(line) {
			title, location := splitFields(strings.TrimRight(string(line), "\r\n"))

			idx, seen := index[title]
			if !seen {
				films = append(films, models.Film{Title: title, Year: extractYear(title)})
				idx = len(films) - 1
				index[title] = idx
			}
			films[idx].Locations = append(films[idx].Locations, location)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read locations file: %w", err)
		}
	}

	return films, nil
}

// splitFields extracts the title and the trimmed location text from a data
// line. Field access counts from the end of the line and never runs out of
// bounds, so a line with fewer than two fields still yields a record.
func splitFields(line string) (string, string) {
	fields := strings.Split(line, "\t")

	last := len(fields) - 1
	if last > 0 && strings.HasPrefix(fields[last], "(") {
		last--
	}

	return fields[0], strings.TrimSpace(fields[last])
}

// extractYear pulls the production year out of a title annotation, returning
// 0 when the title carries none.
func extractYear(title string) int {
	match := yearPattern.FindStringSubmatch(title)
	if match == nil {
		return 0
	}

	year, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}

	return year
}
