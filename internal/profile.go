package internal

import (
	"errors"
	"net/http"

	"github.com/gopher93185789/redshow/pkg/schedule"
	"github.com/gopher93185789/redshow/pkg/types"
	"github.com/gopher93185789/redshow/src/pages"
	"go.uber.org/zap"
)

const (
	msgNoPermission      = "No tienes permisos para acceder a esta página."
	msgOwnerCompleted    = "¡Perfil de establecimiento completado exitosamente!"
	msgArtistCompleted   = "¡Perfil de artista completado exitosamente!"
	msgProfileUpdated    = "Perfil actualizado correctamente."
	msgMediaDeleted      = "Archivo eliminado."
	msgOperationFailed   = "No pudimos completar la operación."
	msgInvalidSubmission = "No pudimos leer el formulario."
)

// completionFlow maps the workflow result of a completion request to a
// response. It returns false when the caller should render the form.
func (s *ServerContext) completionFlow(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrForbidden):
		redirectWith(w, r, dashboardPath, "err", msgNoPermission)
	case errors.Is(err, ErrAlreadyCompleted):
		http.Redirect(w, r, dashboardPath, http.StatusSeeOther)
	default:
		s.logger.Error("profile completion failed", zap.Error(err))
		s.renderError(w, r)
	}
	return true
}

func emptyCompletion() pages.CompleteData {
	return pages.CompleteData{Schedule: schedule.Normalize(nil, schedule.Weekdays)}
}

func (s *ServerContext) CompleteOwnerPage(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())
	if s.completionFlow(w, r, s.completionGate(r.Context(), acc, types.RoleOwner)) {
		return
	}
	s.render(w, r, http.StatusOK, pages.CompleteOwner(emptyCompletion()))
}

func (s *ServerContext) SubmitOwnerProfile(w http.ResponseWriter, r *http.Request) {
	sub, err := readSubmission(r)
	if err != nil {
		redirectWith(w, r, completeOwnerPath, "err", msgInvalidSubmission)
		return
	}

	err = s.CompleteOwnerProfile(r.Context(), sub)
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.render(w, r, http.StatusUnprocessableEntity, pages.CompleteOwner(pages.CompleteData{
			Form:     formState(sub.Form, verr),
			Schedule: schedule.Normalize(schedule.Parse(sub.Form, schedule.Weekdays, schedule.OwnerPrefix), schedule.Weekdays),
			Services: formList(sub.Form, "services[]"),
		}))
		return
	}
	if s.completionFlow(w, r, err) {
		return
	}

	redirectWith(w, r, dashboardPath, "msg", msgOwnerCompleted)
}

func (s *ServerContext) CompleteArtistPage(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())
	if s.completionFlow(w, r, s.completionGate(r.Context(), acc, types.RoleArtist)) {
		return
	}
	s.render(w, r, http.StatusOK, pages.CompleteArtist(emptyCompletion()))
}

func (s *ServerContext) SubmitArtistProfile(w http.ResponseWriter, r *http.Request) {
	sub, err := readSubmission(r)
	if err != nil {
		redirectWith(w, r, completeArtistPath, "err", msgInvalidSubmission)
		return
	}

	err = s.CompleteArtistProfile(r.Context(), sub)
	var verr *ValidationError
	if errors.As(err, &verr) {
		s.render(w, r, http.StatusUnprocessableEntity, pages.CompleteArtist(pages.CompleteData{
			Form:     formState(sub.Form, verr),
			Schedule: schedule.Normalize(schedule.Parse(sub.Form, schedule.Weekdays, schedule.ArtistPrefix), schedule.Weekdays),
		}))
		return
	}
	if s.completionFlow(w, r, err) {
		return
	}

	redirectWith(w, r, dashboardPath, "msg", msgArtistCompleted)
}

// editData prefills the edit form from the stored account and profile.
func (s *ServerContext) editData(r *http.Request, rp roleProfile) (pages.EditData, error) {
	acc := accountFrom(r.Context())

	media, err := s.store.ListMedia(r.Context(), acc.ID)
	if err != nil {
		return pages.EditData{}, err
	}
	for i := range media {
		media[i].URL = s.files.URL(media[i].File)
	}

	d := pages.EditData{
		Role:            acc.Role,
		Media:           media,
		ProfileImageURL: s.files.URL(acc.ProfileImage),
	}

	values := accountValues(acc)
	if rp.owner != nil {
		values = mergeValues(values, ownerValues(rp.owner))
		d.Schedule = schedule.Normalize(rp.owner.Schedule, schedule.Weekdays)
		d.Services = rp.owner.AdditionalServices
	} else if rp.artist != nil {
		values = mergeValues(values, artistValues(rp.artist))
		d.Schedule = schedule.Normalize(rp.artist.Availability, schedule.Weekdays)
	}
	d.Form = pages.Form{Values: values, Message: r.URL.Query().Get("err")}
	return d, nil
}

func (s *ServerContext) EditProfilePage(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	rp, err := s.ensureProfile(r.Context(), acc)
	if err != nil {
		s.logger.Error("edit profile failed", zap.String("username", acc.Username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	d, err := s.editData(r, rp)
	if err != nil {
		s.logger.Error("edit profile failed", zap.String("username", acc.Username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	s.render(w, r, http.StatusOK, pages.EditProfile(d))
}

func (s *ServerContext) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	sub, err := readSubmission(r)
	if err != nil {
		redirectWith(w, r, editProfilePath, "err", msgInvalidSubmission)
		return
	}

	err = s.EditProfile(r.Context(), sub)
	if err == nil {
		redirectWith(w, r, profilePath, "msg", msgProfileUpdated)
		return
	}

	var verr *ValidationError
	if !errors.As(err, &verr) {
		s.logger.Error("update profile failed", zap.String("username", sub.Account.Username), zap.Error(err))
		redirectWith(w, r, editProfilePath, "err", msgOperationFailed)
		return
	}

	rp, err := s.ensureProfile(r.Context(), sub.Account)
	if err != nil {
		s.logger.Error("update profile failed", zap.String("username", sub.Account.Username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	d, err := s.editData(r, rp)
	if err != nil {
		s.logger.Error("update profile failed", zap.String("username", sub.Account.Username), zap.Error(err))
		s.renderError(w, r)
		return
	}

	d.Form = formState(sub.Form, verr)
	if sub.Account.Role == types.RoleOwner {
		if posted := schedule.Parse(sub.Form, schedule.Weekdays, schedule.OwnerPrefix); len(posted) > 0 {
			d.Schedule = schedule.Normalize(posted, schedule.Weekdays)
		}
		if services := formList(sub.Form, "services[]"); len(services) > 0 {
			d.Services = services
		}
	} else if posted := schedule.Parse(sub.Form, schedule.Weekdays, schedule.ArtistPrefix); len(posted) > 0 {
		d.Schedule = schedule.Normalize(posted, schedule.Weekdays)
	}

	s.render(w, r, http.StatusUnprocessableEntity, pages.EditProfile(d))
}
