package programme

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	tpltools "github.com/xdoubleu/essentia/v2/pkg/tpl"
	"programme.xdoubleu.com/apps/programme/internal/models"
	"programme.xdoubleu.com/apps/programme/internal/view"
	"programme.xdoubleu.com/internal/constants"
	sharedmodels "programme.xdoubleu.com/internal/models"
)

func (app *Programme) templateRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/{$}", prefix),
		app.Services.Auth.OptionalAccess(app.rootHandler),
	)
}

func (app *Programme) rootHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)

	//nolint:exhaustruct //other fields are optional
	page := view.Page{
		SignedIn: user != nil,
	}

	if user != nil {
		page.DisplayName = user.DisplayName()
	}

	programme, err := app.Services.Programme.Current()
	if err != nil {
		page.Error = fmt.Sprintf("Failed to load conference program. (%s)", err)
		tpltools.RenderWithPanic(app.tpl, w, "programme.html", page)
		return
	}

	highlights := models.NewHighlightSet()
	if user != nil {
		doc, err := app.Services.Highlights.Get(r.Context(), user.ID)
		if err != nil {
			app.logger.Error(
				"failed to load highlights",
				slog.String("user", user.ID),
				logging.ErrAttr(err),
			)
		} else {
			highlights = doc.Set()
		}
	}

	page.Days = view.Build(programme, highlights)

	tpltools.RenderWithPanic(app.tpl, w, "programme.html", page)
}

func (app *Programme) getProgrammeHandler(w http.ResponseWriter, r *http.Request) {
	programme, err := app.Services.Programme.Current()
	if err != nil {
		httptools.HandleError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	err = json.NewEncoder(w).Encode(programme)
	if err != nil {
		app.logger.Error("failed to write programme", logging.ErrAttr(err))
	}
}
