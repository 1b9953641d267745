package internal

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gopher93185789/redshow/pkg/types"
)

type testClient struct {
	t       *testing.T
	handler http.Handler
	session *http.Cookie
}

func newTestClient(t *testing.T, s *ServerContext) *testClient {
	return &testClient{t: t, handler: s.Routes(nil, nil, "/media/")}
}

func (c *testClient) do(r *http.Request) *httptest.ResponseRecorder {
	c.t.Helper()
	if c.session != nil {
		r.AddCookie(c.session)
	}

	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, r)

	for _, ck := range w.Result().Cookies() {
		if ck.Name != sessionCookieName {
			continue
		}
		if ck.MaxAge < 0 || ck.Value == "" {
			c.session = nil
		} else {
			c.session = ck
		}
	}
	return w
}

func (c *testClient) get(path string) *httptest.ResponseRecorder {
	return c.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (c *testClient) postForm(path string, v url.Values) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(v.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(r)
}

func (c *testClient) postMultipart(path string, v url.Values, files map[string][]Upload) *httptest.ResponseRecorder {
	c.t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for k, vals := range v {
		for _, val := range vals {
			writer.WriteField(k, val)
		}
	}
	for field, uploads := range files {
		for _, up := range uploads {
			fw, err := writer.CreateFormFile(field, up.Filename)
			if err != nil {
				c.t.Fatal(err)
			}
			fw.Write(up.Data)
		}
	}
	writer.Close()

	r := httptest.NewRequest(http.MethodPost, path, &buf)
	r.Header.Set("Content-Type", writer.FormDataContentType())
	return c.do(r)
}

func expectRedirect(t *testing.T, w *httptest.ResponseRecorder, prefix string) {
	t.Helper()
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d: %s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); !strings.HasPrefix(loc, prefix) {
		t.Fatalf("redirected to %q, want prefix %q", loc, prefix)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, code int) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("expected %d, got %d: %s", code, w.Code, w.Body.String())
	}
}

func TestCompletionHandlers(t *testing.T) {
	s := newTestServer(t)

	artist := newTestClient(t, s)
	expectRedirect(t, artist.postForm(registerPath, registration("lu", types.RoleArtist)), completeArtistPath)

	owner := newTestClient(t, s)
	expectRedirect(t, owner.postForm(registerPath, registration("trastienda", types.RoleOwner)), completeOwnerPath)

	t.Run("dashboard shows incomplete profile", func(t *testing.T) {
		w := artist.get(dashboardPath)
		expectStatus(t, w, http.StatusOK)
		if !strings.Contains(w.Body.String(), completeArtistPath) {
			t.Error("completion link missing")
		}
	})

	t.Run("role gate", func(t *testing.T) {
		w := artist.get(completeOwnerPath)
		expectRedirect(t, w, dashboardPath+"?err=")

		w = owner.postMultipart(completeArtistPath, artistSubmission(), nil)
		expectRedirect(t, w, dashboardPath+"?err=")
	})

	t.Run("completion form", func(t *testing.T) {
		w := owner.get(completeOwnerPath)
		expectStatus(t, w, http.StatusOK)
		if !strings.Contains(w.Body.String(), `name="days_Lunes"`) {
			t.Error("schedule grid not rendered")
		}
	})

	t.Run("invalid owner submission", func(t *testing.T) {
		v := ownerSubmission()
		v.Set("capacity", "-3")

		w := owner.postForm(completeOwnerPath, v)
		expectStatus(t, w, http.StatusUnprocessableEntity)
		if !strings.Contains(w.Body.String(), "Sonido") {
			t.Error("posted services lost on re-render")
		}
	})

	t.Run("owner completes", func(t *testing.T) {
		w := owner.postForm(completeOwnerPath, ownerSubmission())
		expectRedirect(t, w, dashboardPath+"?msg=")
	})

	t.Run("artist completes", func(t *testing.T) {
		w := artist.postMultipart(completeArtistPath, artistSubmission(), nil)
		expectRedirect(t, w, dashboardPath+"?msg=")
	})

	t.Run("second completion", func(t *testing.T) {
		v := artistSubmission()
		v.Set("stage_name", "Otro Nombre")

		w := artist.postMultipart(completeArtistPath, v, nil)
		expectRedirect(t, w, dashboardPath)
		if loc := w.Header().Get("Location"); loc != dashboardPath {
			t.Errorf("second completion redirected to %q", loc)
		}
		expectRedirect(t, artist.get(completeArtistPath), dashboardPath)

		a, err := s.store.AccountByUsername(t.Context(), "lu")
		if err != nil {
			t.Fatal(err)
		}
		p, err := s.store.ArtistProfile(t.Context(), a.ID)
		if err != nil {
			t.Fatal(err)
		}
		if p.StageName != "DJ Lu" {
			t.Errorf("stage name overwritten: %q", p.StageName)
		}
	})

	t.Run("public profile", func(t *testing.T) {
		anon := newTestClient(t, s)

		w := anon.get("/perfil/lu/")
		expectStatus(t, w, http.StatusOK)
		body := w.Body.String()
		if !strings.Contains(body, "DJ Lu") || !strings.Contains(body, "Sábado") {
			t.Error("artist details missing")
		}
		if strings.Contains(body, editProfilePath) {
			t.Error("public profile links to the edit page")
		}

		expectStatus(t, anon.get("/perfil/nadie/"), http.StatusNotFound)
	})
}

func TestEditHandlers(t *testing.T) {
	s := newTestServer(t)

	c := newTestClient(t, s)
	expectRedirect(t, c.postForm(registerPath, registration("lu", types.RoleArtist)), completeArtistPath)
	expectRedirect(t, c.postForm(completeArtistPath, artistSubmission()), dashboardPath)

	intruder := newTestClient(t, s)
	expectRedirect(t, intruder.postForm(registerPath, registration("intruso", types.RoleArtist)), completeArtistPath)

	a, err := s.store.AccountByUsername(t.Context(), "lu")
	if err != nil {
		t.Fatal(err)
	}

	t.Run("edit page is prefilled", func(t *testing.T) {
		w := c.get(editProfilePath)
		expectStatus(t, w, http.StatusOK)
		if !strings.Contains(w.Body.String(), `value="DJ Lu"`) {
			t.Error("stage name not prefilled")
		}
	})

	t.Run("invalid edit", func(t *testing.T) {
		v := mergeValues(editSubmission(a), artistSubmission())
		v.Set("email", "no-es-un-email")

		w := c.postMultipart(editProfilePath, v, nil)
		expectStatus(t, w, http.StatusUnprocessableEntity)
		if !strings.Contains(w.Body.String(), "Ingresá un correo electrónico válido.") {
			t.Error("email error not rendered")
		}
	})

	t.Run("upload media", func(t *testing.T) {
		v := mergeValues(editSubmission(a), artistSubmission())
		v.Set("bio", "Nueva biografía.")

		w := c.postMultipart(editProfilePath, v, map[string][]Upload{
			"file":          {{Filename: "foto.png", Data: testPNG(t, 16, 16)}},
			"profile_image": {{Filename: "yo.png", Data: testPNG(t, 64, 64)}},
		})
		expectRedirect(t, w, profilePath+"?msg=")

		w = c.get(profilePath)
		expectStatus(t, w, http.StatusOK)
		body := w.Body.String()
		if !strings.Contains(body, "Nueva biografía.") {
			t.Error("bio not updated")
		}
		if !strings.Contains(body, "/media/profile_media/") || !strings.Contains(body, "/media/profiles/") {
			t.Error("uploaded files not rendered")
		}
	})

	media, err := s.store.ListMedia(t.Context(), a.ID)
	if err != nil || len(media) != 1 {
		t.Fatalf("expected one attachment: %v %v", media, err)
	}
	deletePath := "/accounts/media/" + media[0].ID.String() + "/delete/"

	t.Run("delete requires login", func(t *testing.T) {
		anon := newTestClient(t, s)
		expectRedirect(t, anon.postForm(deletePath, url.Values{}), loginPath)
	})

	t.Run("foreign delete", func(t *testing.T) {
		expectStatus(t, intruder.postForm(deletePath, url.Values{}), http.StatusNotFound)
	})

	t.Run("malformed id", func(t *testing.T) {
		expectStatus(t, c.postForm("/accounts/media/123/delete/", url.Values{}), http.StatusNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		expectRedirect(t, c.postForm(deletePath, url.Values{}), editProfilePath)

		media, err := s.store.ListMedia(t.Context(), a.ID)
		if err != nil || len(media) != 0 {
			t.Fatalf("attachment not deleted: %v %v", media, err)
		}
	})
}

func TestRoutes(t *testing.T) {
	s := newTestServer(t)
	c := newTestClient(t, s)

	w := c.get("/healthz")
	expectStatus(t, w, http.StatusOK)
	if body, _ := io.ReadAll(w.Body); string(body) != "OK" {
		t.Errorf("healthz body = %q", body)
	}

	expectStatus(t, c.get("/"), http.StatusOK)
	expectStatus(t, c.get("/no-existe/"), http.StatusNotFound)
}
