package main

import (
	"net/http"
	"os"
	"testing"

	configtools "github.com/xdoubleu/essentia/v2/pkg/config"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"programme.xdoubleu.com/internal/auth"
	"programme.xdoubleu.com/internal/config"
	"programme.xdoubleu.com/internal/mocks"
)

var testApp *Application //nolint:gochecknoglobals //needed for tests

//nolint:gochecknoglobals //needed for tests
var accessToken = http.Cookie{
	Name:  "accessToken",
	Value: mocks.MockAccessToken,
}

//nolint:gochecknoglobals //needed for tests
var refreshToken = http.Cookie{
	Name:  "refreshToken",
	Value: mocks.MockRefreshToken,
}

func TestMain(m *testing.M) {
	cfg := config.New(logging.NewNopLogger())
	cfg.Env = configtools.TestEnv
	cfg.Throttle = false

	testApp = NewApplication(
		logging.NewNopLogger(),
		cfg,
		mocks.NewMockedGoTrueClient(),
		func(_ auth.Service) *Apps {
			return NewAppsWith()
		},
	)

	os.Exit(m.Run())
}
