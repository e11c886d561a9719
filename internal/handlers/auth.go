// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"scalers/internal/middleware"
	"scalers/internal/models"
	"scalers/internal/render"
	"scalers/internal/session"
)

// DefaultIssuer labels the account in authenticator apps.
const DefaultIssuer = "Scalers"

// Auth groups the login, two-factor and logout handlers.
type Auth struct {
	renderer   *render.Renderer
	sessions   Sessions
	users      Users
	require2FA bool
	issuer     string
}

// NewAuth creates the auth handler group. With require2FA off, a correct
// password is enough and the TOTP pages are never shown.
func NewAuth(renderer *render.Renderer, sessions Sessions, users Users, require2FA bool) *Auth {
	return &Auth{
		renderer:   renderer,
		sessions:   sessions,
		users:      users,
		require2FA: require2FA,
		issuer:     DefaultIssuer,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil && sess.TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Email": ""},
	})
}

// LoginSubmit checks the credentials and starts a session.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := a.users.FindByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.loginError(w, r, email, "An unexpected error occurred.")
		return
	}
	if user == nil || !a.users.CheckPassword(user, password) {
		slog.Warn("login failed", "email", email, "remote", r.RemoteAddr)
		a.loginError(w, r, email, "Invalid email or password.")
		return
	}

	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        string(user.Role),
		TwoFADone:   !a.require2FA,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("login", "email", user.Email)
	if a.require2FA {
		http.Redirect(w, r, middleware.TwoFAPath, http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, email, msg string) {
	a.renderer.Page(w, r, "login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Error": msg, "Email": email},
	})
}

// TwoFAPage shows enrolment (secret plus QR code) to users without TOTP,
// and the code prompt to everyone else.
func (a *Auth) TwoFAPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess.TwoFADone {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if !user.Needs2FASetup() {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{Title: "Two-Factor Authentication"})
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: user.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if err := a.users.SetTOTPSecret(r.Context(), user.ID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	a.renderSetup(w, r, key, "")
}

// TwoFASubmit validates the code. The first valid code also switches TOTP
// on for the account.
func (a *Auth) TwoFASubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	user, err := a.users.FindByID(r.Context(), sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, middleware.TwoFAPath, http.StatusSeeOther)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))
	if !totp.Validate(code, *user.TOTPSecret) {
		const msg = "Invalid code. Please try again."
		if user.TOTPEnabled {
			a.renderer.Page(w, r, "2fa_verify", &render.PageData{
				Title: "Two-Factor Authentication",
				Data:  map[string]any{"Error": msg},
			})
			return
		}
		key, err := a.enrolmentKey(user)
		if err != nil {
			slog.Error("rebuild totp key failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		a.renderSetup(w, r, key, msg)
		return
	}

	if !user.TOTPEnabled {
		if err := a.users.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
}

// enrolmentKey rebuilds the otpauth key for a secret saved earlier, so a
// failed first attempt can show the same QR code again.
func (a *Auth) enrolmentKey(user *models.User) (*otp.Key, error) {
	raw, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(*user.TOTPSecret)
	if err != nil {
		return nil, fmt.Errorf("decode totp secret: %w", err)
	}
	return totp.Generate(totp.GenerateOpts{
		Issuer:      a.issuer,
		AccountName: user.Email,
		Secret:      raw,
	})
}

func (a *Auth) renderSetup(w http.ResponseWriter, r *http.Request, key *otp.Key, errMsg string) {
	png, err := qrcode.Encode(key.URL(), qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	data := map[string]any{
		"QRCode": base64.StdEncoding.EncodeToString(png),
		"Secret": key.Secret(),
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}
	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title: "Set Up Two-Factor Authentication",
		Data:  data,
	})
}

// Logout ends the session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}
