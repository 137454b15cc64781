package layout

import (
	"slices"

	"programme.xdoubleu.com/apps/programme/internal/models"
)

// BuildGrid arranges sessions into one grid per day. Days follow the weekday
// order, columns follow the venue priority and rows follow the wall clock.
func BuildGrid(sessions []models.SessionRecord) models.Programme {
	dayOrder, byDay := groupBy(sessions, func(s models.SessionRecord) string {
		if s.Day == "" {
			return models.UnknownDay
		}
		return s.Day
	})

	slices.SortStableFunc(dayOrder, compareDays)

	programme := models.Programme{
		Days: make([]models.Grid, 0, len(dayOrder)),
	}
	for _, day := range dayOrder {
		programme.Days = append(programme.Days, buildDay(day, byDay[day]))
	}

	return programme
}

func buildDay(day string, sessions []models.SessionRecord) models.Grid {
	grid := models.Grid{
		Day:       day,
		Locations: locations(sessions),
		Slots:     []models.TimeSlot{},
	}

	times, byTime := groupBy(sessions, func(s models.SessionRecord) string {
		return s.Time
	})
	slices.SortFunc(times, compareTimes)

	for _, time := range times {
		grid.Slots = append(grid.Slots, buildSlots(day, time, grid.Locations, byTime[time])...)
	}

	return grid
}

// buildSlots returns the rows of a single time. General sessions collapse
// into one full-width row; located sessions sharing that time get a row of
// their own right after it so that no session is dropped.
func buildSlots(
	day string,
	time string,
	locations []string,
	sessions []models.SessionRecord,
) []models.TimeSlot {
	var general, located []models.SessionRecord
	for _, session := range sessions {
		if session.IsGeneral() {
			general = append(general, session)
		} else {
			located = append(located, session)
		}
	}

	slots := []models.TimeSlot{}

	if len(general) > 0 {
		//nolint:exhaustruct //general rows have no cells
		slots = append(slots, models.TimeSlot{
			Time: time,
			General: &models.Cell{
				ID:       models.CellID(day, time, models.GeneralLocation),
				Location: models.GeneralLocation,
				Sessions: general,
			},
		})
	}

	if len(located) == 0 {
		return slots
	}

	//nolint:exhaustruct //located rows have no general cell
	slot := models.TimeSlot{
		Time:  time,
		Cells: make([]models.Cell, 0, len(locations)),
	}
	for _, location := range locations {
		cell := models.Cell{
			ID:       "",
			Location: location,
			Sessions: []models.SessionRecord{},
		}

		for _, session := range located {
			if session.Location == location {
				cell.Sessions = append(cell.Sessions, session)
			}
		}

		if !cell.IsFiller() {
			cell.ID = models.CellID(day, time, location)
		}

		slot.Cells = append(slot.Cells, cell)
	}

	return append(slots, slot)
}

func locations(sessions []models.SessionRecord) []string {
	result := []string{}
	for _, session := range sessions {
		if session.IsGeneral() || slices.Contains(result, session.Location) {
			continue
		}
		result = append(result, session.Location)
	}

	slices.SortFunc(result, compareLocations)
	return result
}

// groupBy buckets sessions by key and returns the keys in first-encounter
// order.
func groupBy(
	sessions []models.SessionRecord,
	key func(models.SessionRecord) string,
) ([]string, map[string][]models.SessionRecord) {
	order := []string{}
	groups := map[string][]models.SessionRecord{}

	for _, session := range sessions {
		k := key(session)
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], session)
	}

	return order, groups
}
