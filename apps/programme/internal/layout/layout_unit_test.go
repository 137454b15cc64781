package layout_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"programme.xdoubleu.com/apps/programme/internal/layout"
	"programme.xdoubleu.com/apps/programme/internal/models"
)

func session(day, time, location, title string) models.SessionRecord {
	//nolint:exhaustruct //optional fields
	return models.SessionRecord{
		Title:    title,
		Day:      day,
		Time:     time,
		Location: location,
	}
}

func TestDayOrder(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Wednesday", "9:00", "B1", "a"),
		session("Monday", "9:00", "B1", "b"),
		session("Zday", "9:00", "B1", "c"),
	})

	assert.Equal(t, []string{"Monday", "Wednesday", "Zday"}, programme.DayNames())
}

func TestUnknownDaysKeepEncounterOrder(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Zday", "9:00", "B1", "a"),
		session("Friday", "9:00", "B1", "b"),
		session("Aday", "9:00", "B1", "c"),
		session("", "9:00", "B1", "d"),
		session("Monday", "9:00", "B1", "e"),
	})

	assert.Equal(
		t,
		[]string{"Monday", "Friday", "Zday", "Aday", models.UnknownDay},
		programme.DayNames(),
	)
}

func TestTimeOrder(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "14:00", "B1", "a"),
		session("Monday", "9:30", "B1", "b"),
		session("Monday", "TBA", "B1", "c"),
	})

	grid, ok := programme.Day("Monday")
	require.True(t, ok)

	times := []string{}
	for _, slot := range grid.Slots {
		times = append(times, slot.Time)
	}

	assert.Equal(t, []string{"9:30", "14:00", "TBA"}, times)
}

func TestTimeOrderTiesAreAlphabetical(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:30 - 10:30", "B1", "a"),
		session("Monday", "09:30", "B1", "b"),
		session("Monday", "Poster session", "B1", "c"),
		session("Monday", "Evening", "B1", "d"),
	})

	times := []string{}
	for _, slot := range programme.Days[0].Slots {
		times = append(times, slot.Time)
	}

	assert.Equal(
		t,
		[]string{"09:30", "9:30 - 10:30", "Evening", "Poster session"},
		times,
	)
}

func TestLocationPriority(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:00", "Room 2", "a"),
		session("Monday", "9:00", "Plaza A", "b"),
		session("Monday", "9:00", "Auditorium", "c"),
		session("Monday", "9:00", "B2", "d"),
	})

	assert.Equal(
		t,
		[]string{"Auditorium", "B2", "Room 2", "Plaza A"},
		programme.Days[0].Locations,
	)
}

func TestLocationPriorityFullClassifier(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:00", "Zen Garden", "a"),
		session("Monday", "9:00", "Main Auditorium", "b"),
		session("Monday", "9:00", "B3", "c"),
		session("Monday", "9:00", "Level 1 - B1", "d"),
		session("Monday", "9:00", "Room 10", "e"),
		session("Monday", "9:00", "Room 1", "f"),
		session("Monday", "9:00", "Bistro", "g"),
		session("Monday", "9:00", "B12", "h"),
		session("Monday", "9:00", models.GeneralLocation, "i"),
	})

	assert.Equal(
		t,
		[]string{
			"Main Auditorium",
			"Level 1 - B1",
			"B3",
			"Room 1",
			"Room 10",
			"B12",
			"Bistro",
			"Zen Garden",
		},
		programme.Days[0].Locations,
	)
}

func TestGeneralRowSpansFullWidth(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:00", "B1", "talk"),
		session("Monday", "10:30", models.GeneralLocation, "morning tea"),
		session("Monday", "10:30", models.GeneralLocation, "exhibition"),
	})

	grid := programme.Days[0]
	require.Len(t, grid.Slots, 2)

	general := grid.Slots[1]
	require.NotNil(t, general.General)
	assert.Empty(t, general.Cells)
	assert.Equal(t, "monday-10-30-general", general.General.ID)
	assert.Len(t, general.General.Sessions, 2)
	assert.NotContains(t, grid.Locations, models.GeneralLocation)
}

func TestEmptyCellsAreFillers(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:00", "B1", "a"),
		session("Monday", "9:00", "B1", "b"),
		session("Monday", "11:00", "B2", "c"),
	})

	grid := programme.Days[0]
	require.Len(t, grid.Slots, 2)

	first := grid.Slots[0]
	require.Len(t, first.Cells, 2)
	assert.Equal(t, "monday-9-00-b1", first.Cells[0].ID)
	assert.Len(t, first.Cells[0].Sessions, 2)
	assert.True(t, first.Cells[1].IsFiller())
	assert.Empty(t, first.Cells[1].ID)
}

func TestEverySessionAppearsExactlyOnce(t *testing.T) {
	sessions := []models.SessionRecord{
		session("Monday", "9:00", "B1", "a"),
		session("Monday", "9:00", models.GeneralLocation, "b"),
		session("Monday", "9:00", "Auditorium", "c"),
		session("Monday", "TBA", "Room 1", "d"),
		session("Tuesday", "9:00", models.GeneralLocation, "e"),
		session("Tuesday", "9:00", models.GeneralLocation, "f"),
		session("Tuesday", "13:15", "Plaza", "g"),
		session("", "13:15", "Plaza", "h"),
		session("Someday", "noon", "B2", "i"),
	}

	programme := layout.BuildGrid(sessions)

	assert.Equal(t, len(sessions), programme.SessionCount())

	seen := map[string]int{}
	for _, grid := range programme.Days {
		for _, slot := range grid.Slots {
			if slot.General != nil {
				for _, s := range slot.General.Sessions {
					assert.Equal(t, models.CellID(grid.Day, slot.Time, s.Location), slot.General.ID)
					seen[s.Title]++
				}
			}
			for _, cell := range slot.Cells {
				for _, s := range cell.Sessions {
					assert.Equal(t, cell.Location, s.Location)
					assert.Equal(t, models.CellID(grid.Day, slot.Time, s.Location), cell.ID)
					seen[s.Title]++
				}
			}
		}
	}

	for _, s := range sessions {
		assert.Equal(t, 1, seen[s.Title], s.Title)
	}
}

func TestGeneralAndLocatedSessionsAtSameTime(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:00", models.GeneralLocation, "keynote"),
		session("Monday", "9:00", "B1", "talk"),
	})

	slots := programme.Days[0].Slots
	require.Len(t, slots, 2)
	assert.NotNil(t, slots[0].General)
	assert.Nil(t, slots[1].General)
	assert.Equal(t, "talk", slots[1].Cells[0].Sessions[0].Title)
}

func TestLegend(t *testing.T) {
	programme := layout.BuildGrid([]models.SessionRecord{
		session("Monday", "9:00", "B2", "a"),
		session("Monday", "9:00", "Auditorium", "b"),
	})

	assert.Equal(t, "Streams: Auditorium · B2", programme.Days[0].Legend())
}

func TestEmptyProgramme(t *testing.T) {
	programme := layout.BuildGrid(nil)
	assert.Empty(t, programme.Days)
}
