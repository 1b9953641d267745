package internal

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gopher93185789/redshow/pkg/types"
	"github.com/gopher93185789/redshow/src/pages"
	"go.uber.org/zap"
)

func (s *ServerContext) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if accountFrom(r.Context()) != nil {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, pages.Register(pages.Form{}))
}

// Register creates the account, logs it in and sends it to the completion
// form of its role.
func (s *ServerContext) Register(w http.ResponseWriter, r *http.Request) {
	form, err := parseRequestForm(r)
	if err != nil {
		http.Redirect(w, r, registerPath+"?err=Failed+to+parse+form", http.StatusSeeOther)
		return
	}

	a, err := s.RegisterAccount(r.Context(), form)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			form.Del("password1")
			form.Del("password2")
			s.render(w, r, http.StatusUnprocessableEntity, pages.Register(formState(form, verr)))
			return
		}

		s.logger.Error("register failed", zap.Error(err))
		s.renderError(w, r)
		return
	}

	if err := s.setSessionCookie(w, a); err != nil {
		s.logger.Error("failed to create token", zap.Error(err))
		http.Redirect(w, r, loginPath, http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, completionPath(a.Role), http.StatusSeeOther)
}

func (s *ServerContext) LoginPage(w http.ResponseWriter, r *http.Request) {
	if accountFrom(r.Context()) != nil {
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
		return
	}
	s.render(w, r, http.StatusOK, pages.Login(pages.Form{Message: r.URL.Query().Get("err")}, safeNext(r.URL.Query().Get("next"))))
}

func (s *ServerContext) Login(w http.ResponseWriter, r *http.Request) {
	form, err := parseRequestForm(r)
	if err != nil {
		http.Redirect(w, r, loginPath+"?err=Failed+to+parse+form", http.StatusSeeOther)
		return
	}
	next := safeNext(form.Get("next"))

	a, err := s.Authenticate(r.Context(), form)
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			form.Del("password")
			s.render(w, r, http.StatusUnprocessableEntity, pages.Login(formState(form, verr), next))
			return
		}

		s.logger.Error("login failed", zap.Error(err))
		s.renderError(w, r)
		return
	}

	if err := s.setSessionCookie(w, a); err != nil {
		s.logger.Error("failed to create token", zap.Error(err))
		http.Redirect(w, r, loginPath+"?err=Internal+server+error", http.StatusSeeOther)
		return
	}

	if next == "" {
		next = dashboardPath
	}
	http.Redirect(w, r, next, http.StatusSeeOther)
}

func (s *ServerContext) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func completionPath(role types.Role) string {
	if role == types.RoleOwner {
		return completeOwnerPath
	}
	return completeArtistPath
}

// safeNext only allows local paths as a post login target.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.Contains(next, `\`) {
		return ""
	}
	return next
}
