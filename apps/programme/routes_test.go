package programme_test

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xdoubleu/essentia/v2/pkg/test"
	"programme.xdoubleu.com/apps/programme/internal/models"
)

func TestProgrammeJSON(t *testing.T) {
	app := newTestApp(t, "", cfg.ProgrammeSource)

	tReq := test.CreateRequestTester(
		app.routes(),
		http.MethodGet,
		"/programme/api/programme.json",
	)

	rs := tReq.Do(t)
	require.Equal(t, http.StatusOK, rs.StatusCode)

	var programme models.Programme
	require.NoError(t, json.NewDecoder(rs.Body).Decode(&programme))

	assert.Equal(t, []string{"Monday", "Tuesday"}, programme.DayNames())
	assert.Equal(t, 5, programme.SessionCount())

	monday, ok := programme.Day("Monday")
	require.True(t, ok)
	assert.Equal(t, []string{"B1", "Room 2"}, monday.Locations)
}

func TestProgrammeJSONLoadError(t *testing.T) {
	app := newTestApp(t, "", "testdata/missing.json")

	tReq := test.CreateRequestTester(
		app.routes(),
		http.MethodGet,
		"/programme/api/programme.json",
	)

	rs := tReq.Do(t)
	assert.Equal(t, http.StatusInternalServerError, rs.StatusCode)
}

func TestMetrics(t *testing.T) {
	app := newTestApp(t, "", cfg.ProgrammeSource)

	tReq := test.CreateRequestTester(
		app.routes(),
		http.MethodGet,
		"/programme/metrics",
	)

	rs := tReq.Do(t)
	require.Equal(t, http.StatusOK, rs.StatusCode)

	body, err := io.ReadAll(rs.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `programme_reloads_total{result="ok"}`)
	assert.Contains(t, string(body), "highlight_subscriptions_active 0")
}

func TestStatic(t *testing.T) {
	app := newTestApp(t, "", cfg.ProgrammeSource)

	for _, file := range []string{"programme.js", "programme.css"} {
		tReq := test.CreateRequestTester(
			app.routes(),
			http.MethodGet,
			"/programme/static/"+file,
		)

		rs := tReq.Do(t)
		assert.Equal(t, http.StatusOK, rs.StatusCode, file)
	}
}
