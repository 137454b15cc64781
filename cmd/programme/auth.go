package main

import (
	"crypto/rand"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/gorilla/csrf"
	"github.com/xdoubleu/essentia/v2/pkg/communication/httptools"
	"github.com/xdoubleu/essentia/v2/pkg/config"
	"github.com/xdoubleu/essentia/v2/pkg/contexttools"
	tpltools "github.com/xdoubleu/essentia/v2/pkg/tpl"
	"programme.xdoubleu.com/cmd/programme/internal/dtos"
	"programme.xdoubleu.com/internal/constants"
	"programme.xdoubleu.com/internal/models"
)

const csrfKeyLength = 32

func (app *Application) authRoutes(prefix string, mux *http.ServeMux) {
	protect := app.csrfProtection()

	mux.Handle("GET /signin", protect(http.HandlerFunc(app.signInPageHandler)))
	mux.Handle(
		fmt.Sprintf("POST /%s/auth/signin", prefix),
		protect(http.HandlerFunc(app.signInHandler)),
	)
	mux.HandleFunc(
		fmt.Sprintf("GET /%s/auth/signout", prefix),
		app.services.Auth.Access(app.signOutHandler),
	)
}

// csrfProtection guards the sign-in form outside the test environment.
func (app *Application) csrfProtection() func(http.Handler) http.Handler {
	if app.config.Env == config.TestEnv {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	key := []byte(app.config.CSRFKey)
	if len(key) != csrfKeyLength {
		key = make([]byte, csrfKeyLength)
		_, _ = rand.Read(key)
	}

	trustedOrigins := []string{}
	if webURL, err := url.Parse(app.config.WebURL); err == nil && webURL.Host != "" {
		trustedOrigins = append(trustedOrigins, webURL.Host)
	}

	secure := app.config.Env == config.ProdEnv
	protect := csrf.Protect(
		key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.TrustedOrigins(trustedOrigins),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

type signInData struct {
	CSRFField template.HTML
}

func (app *Application) signInPageHandler(w http.ResponseWriter, r *http.Request) {
	tpltools.RenderWithPanic(app.tpl, w, "sign-in.html", signInData{
		CSRFField: csrf.TemplateField(r),
	})
}

func (app *Application) signInHandler(w http.ResponseWriter, r *http.Request) {
	var signInDto dtos.SignInDto

	err := httptools.ReadForm(r, &signInDto)
	if err != nil {
		httptools.RedirectWithError(w, r, "/signin", err)
		return
	}

	if ok, errs := signInDto.Validate(); !ok {
		httptools.FailedValidationResponse(w, r, errs)
		return
	}

	accessToken, refreshToken, err := app.services.Auth.SignInWithEmail(&signInDto)
	if err != nil {
		httptools.RedirectWithError(w, r, "/signin", err)
		return
	}

	secure := app.config.Env == config.ProdEnv
	accessTokenCookie, err := app.services.Auth.CreateCookie(
		models.AccessScope,
		*accessToken,
		app.config.AccessExpiry,
		secure,
	)
	if err != nil {
		httptools.RedirectWithError(w, r, "/signin", err)
		return
	}

	http.SetCookie(w, accessTokenCookie)

	if signInDto.RememberMe {
		var refreshTokenCookie *http.Cookie
		refreshTokenCookie, err = app.services.Auth.CreateCookie(
			models.RefreshScope,
			*refreshToken,
			app.config.RefreshExpiry,
			secure,
		)
		if err != nil {
			httptools.RedirectWithError(w, r, "/signin", err)
			return
		}

		http.SetCookie(w, refreshTokenCookie)
	}

	http.Redirect(w, r, homePath, http.StatusSeeOther)
}

func (app *Application) signOutHandler(w http.ResponseWriter, r *http.Request) {
	user := contexttools.GetValue[models.User](r.Context(), constants.UserContextKey)
	accessToken, _ := r.Cookie("accessToken")
	refreshToken, _ := r.Cookie("refreshToken")

	deleteAccessTokenCookie, deleteRefreshTokenCookie, err := app.services.Auth.SignOut(
		user.ID,
		accessToken.Value,
	)
	if err != nil {
		http.Redirect(w, r, homePath, http.StatusSeeOther)
		return
	}

	http.SetCookie(w, deleteAccessTokenCookie)

	if refreshToken != nil {
		http.SetCookie(w, deleteRefreshTokenCookie)
	}

	http.Redirect(w, r, homePath, http.StatusSeeOther)
}
