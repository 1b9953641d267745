package internal

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

const (
	loginPath          = "/accounts/login/"
	logoutPath         = "/accounts/logout/"
	registerPath       = "/accounts/register/"
	dashboardPath      = "/dashboard/"
	completeOwnerPath  = "/accounts/complete-owner-profile/"
	completeArtistPath = "/accounts/complete-artist-profile/"
	profilePath        = "/accounts/perfil/"
	editProfilePath    = "/accounts/perfil/editar/"
)

const (
	authAttempts = 5
	authWindow   = 30 * time.Second
	authBlock    = 5 * time.Minute
)

// Routes builds the site router. media serves locally stored uploads under
// mediaURL and may be nil when files live on a remote host.
func (s *ServerContext) Routes(allowedOrigins []string, media http.Handler, mediaURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	if media != nil {
		r.Handle(mediaURL+"*", media)
	}

	r.Group(func(r chi.Router) {
		r.Use(s.LoadSession)

		r.Get("/", s.HomePage)
		r.Get("/perfil/{username}/", s.PublicProfilePage)

		r.Group(func(r chi.Router) {
			r.Use(s.RateLimit(authAttempts, authWindow, authBlock, "auth"))

			r.Get(registerPath, s.RegisterPage)
			r.Post(registerPath, s.Register)
			r.Get(loginPath, s.LoginPage)
			r.Post(loginPath, s.Login)
		})
		r.Post(logoutPath, s.Logout)

		r.Group(func(r chi.Router) {
			r.Use(s.AuthMiddleware)

			r.Get(dashboardPath, s.DashboardPage)

			r.Get(completeOwnerPath, s.CompleteOwnerPage)
			r.Post(completeOwnerPath, s.SubmitOwnerProfile)
			r.Get(completeArtistPath, s.CompleteArtistPage)
			r.Post(completeArtistPath, s.SubmitArtistProfile)

			r.Get(profilePath, s.ProfilePage)
			r.Get(editProfilePath, s.EditProfilePage)
			r.Post(editProfilePath, s.UpdateProfile)
			r.Post("/accounts/media/{id}/delete/", s.DeleteProfileMedia)
		})

		r.NotFound(s.NotFoundPage)
	})

	return r
}

func requestLogger(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", middleware.GetReqID(r.Context())),
			)
		})
	}
}
