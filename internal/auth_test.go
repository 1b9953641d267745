package internal

import (
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gopher93185789/redshow/pkg/types"
)

func TestAuthHandlers(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)

	t.Run("register page", func(t *testing.T) {
		w := c.get(registerPath)
		expectStatus(t, w, http.StatusOK)
		if !strings.Contains(w.Body.String(), `name="password1"`) {
			t.Error("register form not rendered")
		}
	})

	t.Run("register invalid", func(t *testing.T) {
		v := registration("lu", types.RoleArtist)
		v.Set("confirm_email", "otro@example.com")

		w := c.postForm(registerPath, v)
		expectStatus(t, w, http.StatusUnprocessableEntity)
		if strings.Contains(w.Body.String(), testPassword) {
			t.Error("password echoed back")
		}
		if !strings.Contains(w.Body.String(), "Los correos electrónicos no coinciden.") {
			t.Error("field error not rendered")
		}
		if c.session != nil {
			t.Error("session issued for invalid registration")
		}
	})

	t.Run("register", func(t *testing.T) {
		w := c.postForm(registerPath, registration("lu", types.RoleArtist))
		expectRedirect(t, w, completeArtistPath)
		if c.session == nil {
			t.Fatal("no session cookie")
		}
		if !c.session.HttpOnly {
			t.Error("session cookie readable from scripts")
		}
	})

	t.Run("logged in visitors skip the login page", func(t *testing.T) {
		expectRedirect(t, c.get(loginPath), dashboardPath)
	})

	t.Run("logout", func(t *testing.T) {
		expectRedirect(t, c.postForm(logoutPath, url.Values{}), "/")
		if c.session != nil {
			t.Fatal("session not cleared")
		}
	})

	t.Run("protected pages redirect to login", func(t *testing.T) {
		expectRedirect(t, c.get(dashboardPath), loginPath+"?next="+url.QueryEscape(dashboardPath))
	})

	t.Run("wrong password", func(t *testing.T) {
		w := c.postForm(loginPath, url.Values{"username": {"lu"}, "password": {"incorrecta"}})
		expectStatus(t, w, http.StatusUnprocessableEntity)
		if !strings.Contains(w.Body.String(), "Usuario o contraseña incorrectos.") {
			t.Error("login error not rendered")
		}
	})

	t.Run("login with next", func(t *testing.T) {
		w := c.postForm(loginPath, url.Values{"username": {"lu@example.com"}, "password": {testPassword}, "next": {profilePath}})
		expectRedirect(t, w, profilePath)
		if c.session == nil {
			t.Fatal("no session cookie")
		}
	})

	t.Run("login ignores external next", func(t *testing.T) {
		w := c.postForm(loginPath, url.Values{"username": {"lu"}, "password": {testPassword}, "next": {"//evil.example.com"}})
		expectRedirect(t, w, dashboardPath)
	})

	t.Run("tampered session", func(t *testing.T) {
		other := newTestClient(t, s)
		other.session = &http.Cookie{Name: sessionCookieName, Value: c.session.Value + "x"}
		expectRedirect(t, other.get(dashboardPath), loginPath)
	})
}
