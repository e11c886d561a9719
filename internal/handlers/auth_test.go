// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pquerna/otp/totp"

	"scalers/internal/session"
)

func postLogin(env *fakeEnv, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	env.Auth.LoginSubmit(rec, req)
	return rec
}

func TestLoginPage(t *testing.T) {
	env := newFakeEnv(t)

	rec := httptest.NewRecorder()
	env.Auth.LoginPage(rec, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("anonymous: got %d, want 200", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req = req.WithContext(ctxWithSession(req.Context(), testSession(uuid.New(), "a@b.c", true)))
	rec = httptest.NewRecorder()
	env.Auth.LoginPage(rec, req)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/dashboard" {
		t.Errorf("signed in: got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	// A half-finished login still sees the form.
	req = httptest.NewRequest(http.MethodGet, "/admin/login", nil)
	req = req.WithContext(ctxWithSession(req.Context(), testSession(uuid.New(), "a@b.c", false)))
	rec = httptest.NewRecorder()
	env.Auth.LoginPage(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("partial session: got %d, want 200", rec.Code)
	}
}

func TestLoginSubmit(t *testing.T) {
	tests := []struct {
		name       string
		require2FA bool
		location   string
		twoFADone  bool
	}{
		{"password only", false, "/admin/dashboard", true},
		{"two-factor required", true, "/admin/2fa", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var opts []envOption
			if tt.require2FA {
				opts = append(opts, withRequire2FA())
			}
			env := newFakeEnv(t, opts...)
			env.Users.add("admin@scalers.local", "admin", false)

			rec := postLogin(env, " admin@scalers.local ", "admin")
			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status: got %d, want 303", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tt.location {
				t.Errorf("Location: got %q, want %q", loc, tt.location)
			}
			if env.Sessions.created == nil || env.Sessions.created.TwoFADone != tt.twoFADone {
				t.Errorf("session: %+v", env.Sessions.created)
			}

			var cookie bool
			for _, c := range rec.Result().Cookies() {
				cookie = cookie || (c.Name == session.CookieName && c.Value != "")
			}
			if !cookie {
				t.Errorf("expected %s cookie", session.CookieName)
			}
		})
	}
}

func TestLoginSubmitRejects(t *testing.T) {
	env := newFakeEnv(t)
	env.Users.add("admin@scalers.local", "admin", false)

	for _, tc := range [][2]string{{"admin@scalers.local", "wrong"}, {"nobody@scalers.local", "admin"}} {
		rec := postLogin(env, tc[0], tc[1])
		if rec.Code != http.StatusOK {
			t.Errorf("%s: got %d, want 200", tc[0], rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Invalid email or password.") {
			t.Errorf("%s: error message missing", tc[0])
		}
		if !strings.Contains(body, tc[0]) {
			t.Errorf("%s: email should be kept in the form", tc[0])
		}
	}
	if env.Sessions.created != nil {
		t.Error("no session may be created on failure")
	}
}

func twoFARequest(method string, sess *session.Data, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, "/admin/2fa", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, "/admin/2fa", nil)
	}
	return req.WithContext(ctxWithSession(req.Context(), sess))
}

func TestTwoFAEnrolment(t *testing.T) {
	env := newFakeEnv(t, withRequire2FA())
	user := env.Users.add("admin@scalers.local", "admin", false)
	sess := testSession(user.ID, user.Email, false)

	rec := httptest.NewRecorder()
	env.Auth.TwoFAPage(rec, twoFARequest(http.MethodGet, sess, nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("setup page: got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "data:image/png;base64,") {
		t.Error("QR code missing")
	}

	stored, _ := env.Users.FindByID(t.Context(), user.ID)
	if stored.TOTPSecret == nil {
		t.Fatal("secret not saved")
	}

	// A wrong code re-renders setup with the same secret.
	rec = httptest.NewRecorder()
	env.Auth.TwoFASubmit(rec, twoFARequest(http.MethodPost, sess, url.Values{"code": {"000000"}}))
	body := rec.Body.String()
	if !strings.Contains(body, "Invalid code.") || !strings.Contains(body, *stored.TOTPSecret) {
		t.Error("setup page should show the error and the same secret")
	}

	code, err := totp.GenerateCode(*stored.TOTPSecret, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	rec = httptest.NewRecorder()
	env.Auth.TwoFASubmit(rec, twoFARequest(http.MethodPost, sess, url.Values{"code": {code}}))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/dashboard" {
		t.Fatalf("valid code: got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	stored, _ = env.Users.FindByID(t.Context(), user.ID)
	if !stored.TOTPEnabled {
		t.Error("TOTP should be enabled after the first valid code")
	}
	if env.Sessions.updated == nil || !env.Sessions.updated.TwoFADone {
		t.Error("session should be marked done")
	}
}

func TestTwoFAVerify(t *testing.T) {
	env := newFakeEnv(t, withRequire2FA())
	user := env.Users.add("admin@scalers.local", "admin", true)
	secret := "JBSWY3DPEHPK3PXP"
	env.Users.SetTOTPSecret(t.Context(), user.ID, secret)
	sess := testSession(user.ID, user.Email, false)

	rec := httptest.NewRecorder()
	env.Auth.TwoFAPage(rec, twoFARequest(http.MethodGet, sess, nil))
	if strings.Contains(rec.Body.String(), "base64") {
		t.Error("enrolled users should not see a QR code")
	}

	rec = httptest.NewRecorder()
	env.Auth.TwoFASubmit(rec, twoFARequest(http.MethodPost, sess, url.Values{"code": {"123"}}))
	if !strings.Contains(rec.Body.String(), "Invalid code.") {
		t.Error("expected the error on the verify page")
	}
	if env.Sessions.updated != nil {
		t.Error("session must not change on a wrong code")
	}
}

func TestTwoFAPageAlreadyDone(t *testing.T) {
	env := newFakeEnv(t)
	rec := httptest.NewRecorder()
	env.Auth.TwoFAPage(rec, twoFARequest(http.MethodGet, testSession(uuid.New(), "a@b.c", true), nil))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/dashboard" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestLogout(t *testing.T) {
	env := newFakeEnv(t)
	rec := httptest.NewRecorder()
	env.Auth.Logout(rec, httptest.NewRequest(http.MethodPost, "/admin/logout", nil))

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/admin/login" {
		t.Errorf("got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if !env.Sessions.destroyed {
		t.Error("session not destroyed")
	}
}
