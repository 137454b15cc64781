package models

import "strings"

type Cell struct {
	ID       string          `json:"id"`
	Location string          `json:"location"`
	Sessions []SessionRecord `json:"sessions"`
}

// IsFiller reports whether the cell has nothing scheduled in it.
func (c Cell) IsFiller() bool {
	return len(c.Sessions) == 0
}

// TimeSlot is a single row of a day. A row holding General sessions has a
// General cell spanning the full width and no per-location cells.
type TimeSlot struct {
	Time    string `json:"time"`
	General *Cell  `json:"general,omitempty"`
	Cells   []Cell `json:"cells,omitempty"`
}

type Grid struct {
	Day       string     `json:"day"`
	Locations []string   `json:"locations"`
	Slots     []TimeSlot `json:"slots"`
}

func (g Grid) Legend() string {
	return "Streams: " + strings.Join(g.Locations, " · ")
}

// Programme is the ordered mapping of day to Grid.
type Programme struct {
	Days []Grid `json:"days"`
}

func (p Programme) Day(name string) (Grid, bool) {
	for _, grid := range p.Days {
		if grid.Day == name {
			return grid, true
		}
	}
	return Grid{}, false
}

func (p Programme) DayNames() []string {
	names := make([]string, 0, len(p.Days))
	for _, grid := range p.Days {
		names = append(names, grid.Day)
	}
	return names
}

func (p Programme) SessionCount() int {
	count := 0
	for _, grid := range p.Days {
		for _, slot := range grid.Slots {
			if slot.General != nil {
				count += len(slot.General.Sessions)
			}
			for _, cell := range slot.Cells {
				count += len(cell.Sessions)
			}
		}
	}
	return count
}
