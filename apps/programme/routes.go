package programme

import (
	"fmt"
	"io/fs"
	"net/http"
)

func (app *Programme) apiRoutes(prefix string, mux *http.ServeMux) {
	apiPrefix := fmt.Sprintf("/%s/api", prefix)

	app.highlightsRoutes(apiPrefix, mux)

	mux.HandleFunc(
		fmt.Sprintf("GET %s/state", apiPrefix),
		app.Services.WebSocket.Handler(),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET %s/programme.json", apiPrefix),
		app.getProgrammeHandler,
	)
}

func (app *Programme) staticRoutes(prefix string, mux *http.ServeMux) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err)
	}

	staticPrefix := fmt.Sprintf("/%s/static/", prefix)
	mux.Handle(
		fmt.Sprintf("GET %s", staticPrefix),
		http.StripPrefix(staticPrefix, http.FileServerFS(static)),
	)
}

func (app *Programme) Routes(prefix string, mux *http.ServeMux) {
	app.templateRoutes(prefix, mux)
	app.staticRoutes(prefix, mux)
	app.apiRoutes(prefix, mux)

	mux.Handle(
		fmt.Sprintf("GET /%s/metrics", prefix),
		app.Services.Metrics.Handler(),
	)
}
