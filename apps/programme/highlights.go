package programme

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	"github.com/xdoubleu/essentia/v2/pkg/logging"
	"programme.xdoubleu.com/apps/programme/internal/dtos"
	"programme.xdoubleu.com/internal/constants"
	sharedmodels "programme.xdoubleu.com/internal/models"
)

func (app *Programme) highlightsRoutes(prefix string, mux *http.ServeMux) {
	mux.HandleFunc(
		fmt.Sprintf("GET %s/highlights/ws", prefix),
		app.Services.Auth.OptionalAccess(app.highlightsWsHandler),
	)
}

type wsReconciler struct {
	conn *websocket.Conn
}

func (rc wsReconciler) Reconcile(ctx context.Context, msg dtos.ServerMessageDto) error {
	return wsjson.Write(ctx, rc.conn, msg)
}

func (app *Programme) highlightsWsHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(
		w,
		r,
		//nolint:exhaustruct //other fields are optional
		&websocket.AcceptOptions{OriginPatterns: app.originPatterns()},
	)
	if err != nil {
		app.logger.Debug("websocket accept failed", logging.ErrAttr(err))
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "closing connection")

	ctx, cancel := context.WithCancel(r.Context())

	session := app.Services.NewSession(wsReconciler{conn: conn})
	done := make(chan struct{})
	go func() {
		session.Run(ctx)
		close(done)
	}()
	defer func() {
		cancel()
		<-done
	}()

	user := contexttools.GetValue[sharedmodels.User](
		r.Context(),
		constants.UserContextKey,
	)
	if user != nil {
		signedOut, stopWatching := app.Services.Auth.WatchSignOut(user.ID)
		defer stopWatching()

		session.SignIn(*user)
		go func() {
			select {
			case <-signedOut:
				session.SignOut()
			case <-ctx.Done():
			}
		}()
	} else {
		//nolint:exhaustruct //other fields are optional
		err = wsjson.Write(ctx, conn, dtos.ServerMessageDto{
			Type:     dtos.SessionMessage,
			SignedIn: false,
		})
		if err != nil {
			return
		}
	}

	for {
		var msg dtos.ClientMessageDto
		err = wsjson.Read(ctx, conn, &msg)
		if err != nil {
			return
		}

		if valid, errs := msg.Validate(); !valid {
			//nolint:exhaustruct //other fields are optional
			err = wsjson.Write(ctx, conn, dtos.ServerMessageDto{
				Type:  dtos.ErrorMessage,
				Error: errs,
			})
			if err != nil {
				return
			}
			continue
		}

		session.Toggle(msg.CellID)
	}
}

func (app *Programme) originPatterns() []string {
	webURL, err := url.Parse(app.Config.WebURL)
	if err != nil || webURL.Host == "" {
		return []string{}
	}
	return []string{webURL.Host}
}
