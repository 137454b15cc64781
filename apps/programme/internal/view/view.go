package view

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"programme.xdoubleu.com/apps/programme/internal/models"
)

const (
	DetailsLimit = 300
	Ellipsis     = "…"
)

var anchorInvalid = regexp.MustCompile(`[^a-z0-9]+`)

type Page struct {
	SignedIn    bool
	DisplayName string
	Error       string
	Days        []Day
}

type Day struct {
	Name      string
	Anchor    string
	Legend    string
	Locations []string
	Rows      []Row
}

type Row struct {
	Time    string
	General *Cell
	Cells   []Cell
}

type Cell struct {
	ID          string
	Location    string
	Interactive bool
	Highlighted bool
	// ColSpan is the number of table columns a General cell covers, the time
	// column included. Zero for any other cell.
	ColSpan int
	// Time is only set on General cells, which have no time column.
	Time     string
	Sessions []Session
}

type Session struct {
	Title    string
	Location string
	Authors  string
	Details  string
	URL      string
}

// Build turns the laid out programme into the structure rendered by the
// programme template, marking the cells found in highlights.
func Build(programme models.Programme, highlights models.HighlightSet) []Day {
	days := make([]Day, 0, len(programme.Days))
	anchors := map[string]bool{}

	for i, grid := range programme.Days {
		anchor := Anchor(grid.Day, i)
		if anchors[anchor] {
			anchor += "-" + strconv.Itoa(i+1)
		}
		anchors[anchor] = true

		day := Day{
			Name:      grid.Day,
			Anchor:    anchor,
			Legend:    grid.Legend(),
			Locations: grid.Locations,
			Rows:      make([]Row, 0, len(grid.Slots)),
		}

		for _, slot := range grid.Slots {
			//nolint:exhaustruct //filled below
			row := Row{
				Time: slot.Time,
			}

			if slot.General != nil {
				general := buildCell(*slot.General, highlights)
				general.ColSpan = len(grid.Locations) + 1
				general.Time = slot.Time
				row.General = &general
			}

			for _, cell := range slot.Cells {
				row.Cells = append(row.Cells, buildCell(cell, highlights))
			}

			day.Rows = append(day.Rows, row)
		}

		days = append(days, day)
	}

	return days
}

func buildCell(cell models.Cell, highlights models.HighlightSet) Cell {
	result := Cell{
		ID:          cell.ID,
		Location:    cell.Location,
		Interactive: !cell.IsFiller(),
		Highlighted: false,
		ColSpan:     0,
		Time:        "",
		Sessions:    make([]Session, 0, len(cell.Sessions)),
	}

	if result.Interactive {
		result.Highlighted = highlights.Has(cell.ID)
	}

	for _, session := range cell.Sessions {
		authors, _ := models.Optional(session.Authors)
		details, _ := models.Optional(session.Details)
		url, _ := models.Optional(session.URL)

		result.Sessions = append(result.Sessions, Session{
			Title:    session.Title,
			Location: session.Location,
			Authors:  authors,
			Details:  Truncate(details),
			URL:      url,
		})
	}

	return result
}

// Truncate shortens details to DetailsLimit characters followed by an
// ellipsis. The decision is made on the length of the original text.
func Truncate(details string) string {
	if utf8.RuneCountInString(details) <= DetailsLimit {
		return details
	}

	runes := []rune(details)
	return string(runes[:DetailsLimit]) + Ellipsis
}

// Anchor is the element id of the day section at index. Names without
// any ASCII letter or digit fall back to the position of the day.
func Anchor(day string, index int) string {
	slug := strings.Trim(anchorInvalid.ReplaceAllString(strings.ToLower(day), "-"), "-")
	if slug == "" {
		slug = strconv.Itoa(index + 1)
	}
	return "day-" + slug
}
