package social

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

// GoogleIssuer is Google's OpenID Connect issuer.
const GoogleIssuer = "https://accounts.google.com"

// GoogleConfig configures NewGoogle.  ClientID is the Google app id.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Issuer       string       // defaults to GoogleIssuer
	HTTPClient   *http.Client // optional
}

// Google signs visitors in with their Google account.
type Google struct {
	config     *oauth2.Config
	verifier   *gooidc.IDTokenVerifier
	httpClient *http.Client
}

// NewGoogle fetches the issuer's discovery document and prepares the OAuth2
// config and ID-token verifier.
func NewGoogle(ctx context.Context, cfg GoogleConfig) (*Google, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("social: google client id is required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.New("social: google redirect url is required")
	}
	if cfg.Issuer == "" {
		cfg.Issuer = GoogleIssuer
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}

	op, err := gooidc.NewProvider(gooidc.ClientContext(ctx, hc), cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("social: oidc discovery: %w", err)
	}
	return &Google{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       []string{gooidc.ScopeOpenID, "email", "profile"},
			Endpoint:     op.Endpoint(),
		},
		verifier:   op.Verifier(&gooidc.Config{ClientID: cfg.ClientID}),
		httpClient: hc,
	}, nil
}

func (g *Google) Name() string { return "google" }

// AuthCodeURL returns the consent-page URL for state and nonce.
func (g *Google) AuthCodeURL(state, nonce string) string {
	return g.config.AuthCodeURL(state,
		oauth2.SetAuthURLParam("nonce", nonce),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

// Exchange trades code for tokens and verifies the ID token against nonce.
func (g *Google) Exchange(ctx context.Context, code, nonce string) (Profile, error) {
	if code == "" {
		return Profile{}, errors.New("social: authorization code is required")
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.httpClient)

	tok, err := g.config.Exchange(ctx, code)
	if err != nil {
		return Profile{}, fmt.Errorf("social: exchange code: %w", err)
	}
	rawID, ok := tok.Extra("id_token").(string)
	if !ok || rawID == "" {
		return Profile{}, errors.New("social: token response has no id_token")
	}
	idTok, err := g.verifier.Verify(ctx, rawID)
	if err != nil {
		return Profile{}, fmt.Errorf("social: verify id_token: %w", err)
	}
	var c googleClaims
	if err := idTok.Claims(&c); err != nil {
		return Profile{}, fmt.Errorf("social: parse claims: %w", err)
	}
	return profileFromClaims(c, nonce)
}

type googleClaims struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Nonce         string `json:"nonce"`
}

func profileFromClaims(c googleClaims, nonce string) (Profile, error) {
	if nonce == "" || c.Nonce != nonce {
		return Profile{}, ErrNonceMismatch
	}
	if c.Sub == "" {
		return Profile{}, errors.New("social: id_token has no subject")
	}
	if c.Email == "" || !c.EmailVerified {
		return Profile{}, ErrUnverifiedEmail
	}
	return Profile{ProviderID: c.Sub, Email: c.Email, Name: c.Name}, nil
}
