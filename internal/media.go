package internal

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DeleteProfileMedia removes one attachment of the logged in account. An id
// owned by someone else answers exactly like a missing one.
func (s *ServerContext) DeleteProfileMedia(w http.ResponseWriter, r *http.Request) {
	acc := accountFrom(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.renderNotFound(w, r)
		return
	}

	if err := s.DeleteMedia(r.Context(), acc, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			s.renderNotFound(w, r)
			return
		}
		s.logger.Error("delete media failed", zap.String("username", acc.Username), zap.Stringer("media_id", id), zap.Error(err))
		redirectWith(w, r, editProfilePath, "err", msgOperationFailed)
		return
	}

	redirectWith(w, r, editProfilePath, "msg", msgMediaDeleted)
}
