package services

import (
	"github.com/supabase-community/gotrue-go"
	"github.com/xdoubleu/essentia/v2/pkg/config"
	"programme.xdoubleu.com/internal/auth"
	cfg "programme.xdoubleu.com/internal/config"
)

type Services struct {
	Auth *AuthService
}

func New(
	cfg cfg.Config,
	supabaseClient gotrue.Client,
) *Services {
	return &Services{
		Auth: &AuthService{
			client:           supabaseClient,
			useSecureCookies: cfg.Env == config.ProdEnv,
			accessExpiry:     cfg.AccessExpiry,
			refreshExpiry:    cfg.RefreshExpiry,
			signOuts:         auth.NewSignOuts(),
		},
	}
}
