package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"medipulse/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func authRouter(signer *utils.TokenSigner, role string) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(signer, role, utils.Responder{Strict: true}), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": c.GetString(CtxUserID), "role": c.GetString(CtxRole), "isAdmin": c.GetBool("isAdmin")})
	})
	return r
}

func TestJWTAuth(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	patientToken, err := signer.GenerateToken("user-1", utils.RolePatient, time.Hour)
	require.NoError(t, err)
	adminToken, err := signer.GenerateToken("root", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)
	rolelessToken, err := signer.GenerateToken("user-1", "", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name   string
		role   string
		header string
		value  string
		status int
	}{
		{"bearer", utils.RolePatient, "Authorization", "Bearer " + patientToken, http.StatusOK},
		{"legacy user header", utils.RolePatient, "token", patientToken, http.StatusOK},
		{"legacy admin header", utils.RoleAdmin, "atoken", adminToken, http.StatusOK},
		{"wrong legacy header", utils.RoleAdmin, "token", adminToken, http.StatusUnauthorized},
		{"missing", utils.RolePatient, "", "", http.StatusUnauthorized},
		{"garbage", utils.RolePatient, "Authorization", "Bearer nope", http.StatusUnauthorized},
		{"no role claim", utils.RolePatient, "token", rolelessToken, http.StatusUnauthorized},
		{"wrong role", utils.RoleAdmin, "Authorization", "Bearer " + patientToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			w := httptest.NewRecorder()
			authRouter(signer, tt.role).ServeHTTP(w, req)
			assert.Equal(t, tt.status, w.Code)
			if tt.status != http.StatusOK {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestJWTAuthSetsAdminFlag(t *testing.T) {
	signer := utils.NewTokenSigner("test-secret")
	token, err := signer.GenerateToken("root", utils.RoleAdmin, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(signer, utils.RoleAdmin).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"userId":"root","role":"admin","isAdmin":true}`, w.Body.String())
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(2))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-For", "10.0.0.1, 10.0.0.2")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Real-IP", "10.0.0.9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code, "limits are per client")
}
