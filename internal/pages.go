package internal

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gopher93185789/redshow/src"
	"github.com/gopher93185789/redshow/src/pages"
	"go.uber.org/zap"
)

func (s *ServerContext) render(w http.ResponseWriter, r *http.Request, status int, page templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := src.Root(accountFrom(r.Context()), page).Render(r.Context(), w); err != nil {
		s.logger.Error("render failed", zap.String("path", r.URL.Path), zap.Error(err))
	}
}

func (s *ServerContext) renderError(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusInternalServerError, pages.ServerError())
}

func (s *ServerContext) renderNotFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, pages.NotFound())
}

// redirectWith redirects to path carrying a flash message in key (msg or err).
func redirectWith(w http.ResponseWriter, r *http.Request, path, key, msg string) {
	http.Redirect(w, r, path+"?"+url.Values{key: {msg}}.Encode(), http.StatusSeeOther)
}

func flashFrom(r *http.Request) pages.Flash {
	q := r.URL.Query()
	return pages.Flash{Msg: q.Get("msg"), Err: q.Get("err")}
}

func formState(values url.Values, verr *ValidationError) pages.Form {
	f := pages.Form{Values: values}
	if verr != nil {
		f.Errors = verr.Fields
		f.Message = verr.Form
		if f.Message == "" && len(verr.Fields) > 0 {
			f.Message = "Revisá los campos marcados."
		}
	}
	return f
}

// parseRequestForm accepts both urlencoded and multipart bodies.
func parseRequestForm(r *http.Request) (url.Values, error) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}
	return r.PostForm, nil
}

// readSubmission collects the posted fields and files of the acting account.
func readSubmission(r *http.Request) (Submission, error) {
	form, err := parseRequestForm(r)
	if err != nil {
		return Submission{}, err
	}

	sub := Submission{Account: accountFrom(r.Context()), Form: form}
	if r.MultipartForm == nil {
		return sub, nil
	}

	if headers := r.MultipartForm.File["profile_image"]; len(headers) > 0 && headers[0].Size > 0 {
		up, err := readUpload(headers[0])
		if err != nil {
			return Submission{}, err
		}
		sub.Avatar = &up
	}

	for _, fh := range r.MultipartForm.File["file"] {
		if fh.Size == 0 {
			continue
		}
		up, err := readUpload(fh)
		if err != nil {
			return Submission{}, err
		}
		sub.Files = append(sub.Files, up)
	}
	return sub, nil
}

func readUpload(fh *multipart.FileHeader) (Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return Upload{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Upload{}, err
	}
	return Upload{Filename: fh.Filename, Data: data}, nil
}

/*****************************************************
 *                      PAGES                        *
 *****************************************************/
func (s *ServerContext) HomePage(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, pages.Home(accountFrom(r.Context())))
}

func (s *ServerContext) DashboardPage(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	complete, err := s.profileComplete(r.Context(), acc)
	if err != nil {
		s.logger.Error("dashboard failed", zap.String("username", acc.Username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, pages.Dashboard(*acc, complete, flashFrom(r)))
}

func (s *ServerContext) ProfilePage(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	view, err := s.ViewProfile(r.Context(), acc)
	if err != nil {
		s.logger.Error("profile view failed", zap.String("username", acc.Username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, pages.Profile(*view, flashFrom(r)))
}

func (s *ServerContext) PublicProfilePage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	view, err := s.PublicProfile(r.Context(), username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("public profile failed", zap.String("username", username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, pages.Profile(*view, pages.Flash{}))
}

func (s *ServerContext) NotFoundPage(w http.ResponseWriter, r *http.Request) {
	s.renderNotFound(w, r)
}
