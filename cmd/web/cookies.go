package main

import (
	"encoding/base64"
	"errors"
	"fmt"
	"moviesocial/proj/internal/clients/api"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	browserCookie = "msn_browser"
	flashCookie   = "msn_flash"
)

// browserClaims identify one browser and carry the remote session cookies relayed for it.
type browserClaims struct {
	BrowserID   string          `json:"bid"`
	Credentials api.Credentials `json:"creds,omitempty"`
	jwt.RegisteredClaims
}

func (app *Application) signBrowser(browserID string, creds api.Credentials) (string, error) {
	now := time.Now()
	claims := browserClaims{
		BrowserID:   browserID,
		Credentials: creds,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(app.cfg.Cookies.MaxAge)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(app.cfg.AppSecret))
}

func (app *Application) parseBrowser(token string) (*browserClaims, error) {
	claims := &browserClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (any, error) {
		return []byte(app.cfg.AppSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !parsed.Valid || claims.BrowserID == "" {
		return nil, errors.New("invalid browser token")
	}
	return claims, nil
}

func (app *Application) writeBrowserCookie(w http.ResponseWriter, browserID string, creds api.Credentials) error {
	token, err := app.signBrowser(browserID, creds)
	if err != nil {
		return fmt.Errorf("failed to sign browser cookie: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     browserCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(app.cfg.Cookies.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   app.cfg.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// setFlash stores a one-shot alert shown on the next rendered page.
func (app *Application) setFlash(w http.ResponseWriter, msg string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString([]byte(msg)),
		Path:     "/",
		HttpOnly: true,
		Secure:   app.cfg.Cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (app *Application) popFlash(w http.ResponseWriter, r *http.Request) string {
	ck, err := r.Cookie(flashCookie)
	if err != nil {
		return ""
	}
	http.SetCookie(w, &http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1})
	msg, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return ""
	}
	return string(msg)
}
