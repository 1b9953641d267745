package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/gopher93185789/redshow/internal/config"
	"go.uber.org/zap"
)

const password = "S3guraPass!"

var mediaLink = regexp.MustCompile(`/media/profile_media/[^"]+`)

func newTestSite(t *testing.T) (*httptest.Server, *http.Client) {
	t.Helper()

	dir := t.TempDir()
	cfg := config.Config{
		SQLitePath: filepath.Join(dir, "redshow.db"),
		JWTSecret:  "integration-secret",
		MediaRoot:  filepath.Join(dir, "media"),
		MediaURL:   "/media/",
	}

	handler, cleanup, err := setup(t.Context(), cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(cleanup)

	// the session cookie is Secure so the jar only replays it over https
	ts := httptest.NewTLSServer(handler)
	t.Cleanup(ts.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatal(err)
	}
	client := ts.Client()
	client.Jar = jar
	return ts, client
}

func read(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(body)
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestArtistJourney(t *testing.T) {
	ts, client := newTestSite(t)

	t.Run("register", func(t *testing.T) {
		form := url.Values{
			"username":      {"lu"},
			"email":         {"lu@example.com"},
			"confirm_email": {"lu@example.com"},
			"first_name":    {"Lucía"},
			"last_name":     {"Pérez"},
			"birth_date":    {"1990-05-01"},
			"phone":         {"+5491122334455"},
			"accept_terms":  {"on"},
			"user_type":     {"artist"},
			"password1":     {password},
			"password2":     {password},
		}

		resp, err := client.PostForm(ts.URL+"/accounts/register/", form)
		if err != nil {
			t.Fatal(err)
		}
		body := read(t, resp)

		if resp.Request.URL.Path != "/accounts/complete-artist-profile/" {
			t.Fatalf("landed on %s", resp.Request.URL.Path)
		}
		if !strings.Contains(body, "Completá tu perfil de artista") {
			t.Error("artist completion form not shown")
		}
	})

	t.Run("complete", func(t *testing.T) {
		form := url.Values{
			"stage_name":   {"DJ Lu"},
			"category":     {"dj"},
			"bio":          {"Sets de house."},
			"day_Sábado":   {"on"},
			"from_Sábado":  {"22:00"},
			"to_Sábado":    {"04:00"},
			"instagram":    {"@djlu"},
			"tiktok":       {"@djlu.tt"},
			"neighborhood": {"Palermo"},
		}

		resp, err := client.PostForm(ts.URL+"/accounts/complete-artist-profile/", form)
		if err != nil {
			t.Fatal(err)
		}
		body := read(t, resp)

		if resp.Request.URL.Path != "/dashboard/" {
			t.Fatalf("landed on %s", resp.Request.URL.Path)
		}
		if !strings.Contains(body, "¡Perfil de artista completado exitosamente!") {
			t.Error("success message missing")
		}
	})

	var mediaURL string
	t.Run("upload", func(t *testing.T) {
		var buf bytes.Buffer
		writer := multipart.NewWriter(&buf)
		for k, v := range map[string]string{
			"first_name":   "Lucía",
			"last_name":    "Pérez",
			"email":        "lu@example.com",
			"stage_name":   "DJ Lu",
			"category":     "dj",
			"bio":          "Sets de house y techno.",
			"instagram":    "@djlu",
			"tiktok":       "@djlu.tt",
			"neighborhood": "Palermo",
			"media_type":   "image",
		} {
			writer.WriteField(k, v)
		}
		fw, err := writer.CreateFormFile("file", "flyer.png")
		if err != nil {
			t.Fatal(err)
		}
		fw.Write(pngBytes(t))
		writer.Close()

		resp, err := client.Post(ts.URL+"/accounts/perfil/editar/", writer.FormDataContentType(), &buf)
		if err != nil {
			t.Fatal(err)
		}
		body := read(t, resp)

		if resp.Request.URL.Path != "/accounts/perfil/" {
			t.Fatalf("landed on %s: %s", resp.Request.URL.Path, body)
		}
		if !strings.Contains(body, "Sets de house y techno.") {
			t.Error("bio not updated")
		}

		mediaURL = mediaLink.FindString(body)
		if mediaURL == "" {
			t.Fatal("uploaded media not listed")
		}
	})

	t.Run("media is served", func(t *testing.T) {
		resp, err := client.Get(ts.URL + mediaURL)
		if err != nil {
			t.Fatal(err)
		}
		body := read(t, resp)

		if resp.StatusCode != http.StatusOK || !bytes.Equal([]byte(body), pngBytes(t)) {
			t.Fatalf("media fetch: %d", resp.StatusCode)
		}
	})

	t.Run("public profile", func(t *testing.T) {
		anon := &http.Client{Transport: client.Transport}

		resp, err := anon.Get(ts.URL + "/perfil/lu/")
		if err != nil {
			t.Fatal(err)
		}
		body := read(t, resp)

		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status %d", resp.StatusCode)
		}
		for _, want := range []string{"DJ Lu", "@djlu.tt", "Palermo", "22:00 a 04:00"} {
			if !strings.Contains(body, want) {
				t.Errorf("public profile missing %q", want)
			}
		}
	})

	t.Run("logout", func(t *testing.T) {
		resp, err := client.PostForm(ts.URL+"/accounts/logout/", url.Values{})
		if err != nil {
			t.Fatal(err)
		}
		read(t, resp)

		resp, err = client.Get(ts.URL + "/dashboard/")
		if err != nil {
			t.Fatal(err)
		}
		read(t, resp)

		if resp.Request.URL.Path != "/accounts/login/" {
			t.Fatalf("dashboard reachable after logout: %s", resp.Request.URL.Path)
		}
	})
}
