package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stockflow/backend/internal/infrastructure/config"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newJWTService(expiration time.Duration) *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                "middleware-test-secret-of-sufficient-length",
		Issuer:                "stockflow-test",
		AccessTokenExpiration: expiration,
	})
}

type capture struct {
	identity auth.Identity
	hasID    bool
	tenant   tenantctx.RequestContext
	hasRC    bool
}

func authRouter(svc *auth.JWTService, bl auth.TokenBlacklist, got *capture) *gin.Engine {
	r := gin.New()
	r.Use(RequestID(), JWTAuth(JWTMiddlewareConfig{JWTService: svc, TokenBlacklist: bl}), TenantContext())
	r.GET("/", func(c *gin.Context) {
		got.identity, got.hasID = auth.IdentityFromContext(c.Request.Context())
		got.tenant, got.hasRC = tenantctx.Current(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r
}

func request(r *gin.Engine, header string) (*httptest.ResponseRecorder, dto.Response) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(AuthHeaderKey, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var resp dto.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestJWTAuth(t *testing.T) {
	svc := newJWTService(time.Hour)

	t.Run("valid token installs identity and tenant context", func(t *testing.T) {
		var got capture
		r := authRouter(svc, nil, &got)
		token, _, err := svc.GenerateAccessToken(auth.Identity{Subject: "u-1", TenantID: "t-1", Role: "owner"})
		require.NoError(t, err)

		w, _ := request(r, BearerPrefix+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, got.hasID)
		assert.Equal(t, "owner", got.identity.Role)
		assert.True(t, got.hasRC)
		assert.Equal(t, tenantctx.RequestContext{TenantID: "t-1", UserID: "u-1"}, got.tenant)
	})

	t.Run("token without tenant leaves tenant context unset", func(t *testing.T) {
		var got capture
		r := authRouter(svc, nil, &got)
		token, _, err := svc.GenerateAccessToken(auth.Identity{Subject: "u-1"})
		require.NoError(t, err)

		w, _ := request(r, BearerPrefix+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, got.hasID)
		assert.False(t, got.hasRC)
	})

	t.Run("missing and malformed headers", func(t *testing.T) {
		r := authRouter(svc, nil, &capture{})

		w, resp := request(r, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)

		w, resp = request(r, BearerPrefix+"  ")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)

		w, resp = request(r, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, resp.Error.Code)

		w, resp = request(r, BearerPrefix+"not-a-jwt")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenInvalid, resp.Error.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newJWTService(-time.Minute)
		token, _, err := expired.GenerateAccessToken(auth.Identity{Subject: "u-1"})
		require.NoError(t, err)

		w, resp := request(authRouter(svc, nil, &capture{}), BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenExpired, resp.Error.Code)
		assert.NotEmpty(t, resp.Error.RequestID)
	})

	t.Run("revoked token", func(t *testing.T) {
		bl := auth.NewInMemoryTokenBlacklist()
		token, claims, err := svc.GenerateAccessToken(auth.Identity{Subject: "u-1"})
		require.NoError(t, err)
		require.NoError(t, bl.Revoke(context.Background(), claims.ID, time.Hour))

		w, resp := request(authRouter(svc, bl, &capture{}), BearerPrefix+token)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeTokenRevoked, resp.Error.Code)
	})
}
