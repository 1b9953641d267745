package internal

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gopher93185789/redshow/internal/storage"
	"github.com/gopher93185789/redshow/internal/store"
	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type ServerContext struct {
	store    store.Store
	files    storage.Storage
	cache    *cache.Cache
	logger   *zap.Logger
	validate *validator.Validate
	jwtKey   []byte
	redis    *redis.Client
}

func NewServerContext(st store.Store, files storage.Storage, logger *zap.Logger, jwtKey []byte) *ServerContext {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ServerContext{
		store:    st,
		files:    files,
		cache:    cache.New(profileCacheExp, 2*profileCacheExp),
		logger:   logger,
		validate: newValidator(),
		jwtKey:   jwtKey,
	}
}

// UseRedis enables rate limiting on the login and register forms.
func (s *ServerContext) UseRedis(rdb *redis.Client) {
	s.redis = rdb
}

const (
	sessionExp        = 6 * time.Hour
	sessionCookieName = "redshow_session"
	profileCacheExp   = 5 * time.Minute

	maxUploadSize = 32 << 20
)
