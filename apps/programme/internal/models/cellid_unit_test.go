package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"programme.xdoubleu.com/apps/programme/internal/models"
)

func TestCellID(t *testing.T) {
	assert.Equal(
		t,
		"monday-9-30-room-2",
		models.CellID("Monday", "9:30", "Room 2"),
	)
	assert.Equal(
		t,
		"tuesday-14-00---15-00-general",
		models.CellID("Tuesday", "14:00 / 15:00", models.GeneralLocation),
	)
	assert.Equal(
		t,
		"wednesday-tba-b1-b2",
		models.CellID("Wednesday", "TBA", "B1/B2"),
	)
}

func TestCellIDDeterministic(t *testing.T) {
	for range 10 {
		assert.Equal(
			t,
			models.CellID("Friday", "11:15", "Auditorium"),
			models.CellID("Friday", "11:15", "Auditorium"),
		)
	}
}

func TestCellIDDistinctTriples(t *testing.T) {
	days := []string{"Monday", "Tuesday", "Unknown"}
	times := []string{"9:30", "10:00", "14:00", "TBA"}
	locations := []string{"Auditorium", "B1", "B2", "Room 2", "Plaza A", models.GeneralLocation}

	seen := map[string][3]string{}
	for _, day := range days {
		for _, time := range times {
			for _, location := range locations {
				id := models.CellID(day, time, location)

				prev, exists := seen[id]
				assert.False(t, exists, "%v collides with %v", [3]string{day, time, location}, prev)

				seen[id] = [3]string{day, time, location}
			}
		}
	}

	assert.Len(t, seen, len(days)*len(times)*len(locations))
}

// Separators are all mapped to "-", so triples that only differ in where a
// separator sits share an id.
func TestCellIDSeparatorCollision(t *testing.T) {
	assert.Equal(t, "a-b-c-d", models.CellID("a b", "c", "d"))
	assert.Equal(
		t,
		models.CellID("a b", "c", "d"),
		models.CellID("a", "b c", "d"),
	)
	assert.Equal(
		t,
		models.CellID("Monday", "9:30", "Room 2"),
		models.CellID("Monday 9", "30", "Room/2"),
	)
}
