package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"hotel/config"
	otelMocks "hotel/infras/otel/mocks"
	"hotel/shared/cache"
	cacheMocks "hotel/shared/cache/mocks"
	"hotel/transport/http/middleware"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limiterConfig(enable bool) *config.Config {
	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = enable
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	return cfg
}

func serve(handler http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/rooms", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7, 172.16.0.1")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	return rec
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestRateLimit_Disabled(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(false), redisCache)

	assert.Equal(t, http.StatusNoContent, serve(mw.RateLimit()(okHandler)).Code)
}

func TestRateLimit_FirstRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(cache.Nil)
	redisCache.EXPECT().Save(gomock.Any(), gomock.Any(), 1, 60).Return(nil)

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(true), redisCache)
	rec := serve(mw.RateLimit()(okHandler))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_Exceeded(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ any, key string, value any) error {
			assert.Contains(t, key, "limiter:10.0.0.7:")
			*(value.(*int)) = 2

			return nil
		})

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(true), redisCache)
	rec := serve(mw.RateLimit()(okHandler))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimit_CacheDown(t *testing.T) {
	ctrl := gomock.NewController(t)
	redisCache := cacheMocks.NewMockRedisCache(ctrl)

	redisCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("dial tcp: refused"))

	mw := middleware.NewAppMiddleware(otelMocks.NewOtel(), limiterConfig(true), redisCache)

	assert.Equal(t, http.StatusNoContent, serve(mw.RateLimit()(okHandler)).Code)
}
