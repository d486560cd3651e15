package main

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/tahfidz-api/internal/handler"
	"github.com/noah-isme/tahfidz-api/internal/models"
	"github.com/noah-isme/tahfidz-api/internal/service"
	"github.com/noah-isme/tahfidz-api/pkg/config"
	appErrors "github.com/noah-isme/tahfidz-api/pkg/errors"
)

type tokenStub map[string]*models.JWTClaims

func (s tokenStub) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, appErrors.ErrUnauthorized
}

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: config.EnvProduction, APIPrefix: "/api/v1"}
	return newRouter(routerDeps{
		cfg:    cfg,
		logger: zap.NewNop(),
		tokens: tokenStub{
			"student": {UserID: "student-user", Role: models.RoleStudent},
		},
		authz:       service.NewAuthorizationService(nil),
		tickets:     handler.NewTicketHandler(nil),
		mushaf:      handler.NewMushafHandler(nil, nil),
		assignments: handler.NewAssignmentHandler(nil),
		probes:      handler.NewMetricsHandler(nil, nil),
	})
}

func TestRouterGuardsAPIRoutes(t *testing.T) {
	r := testRouter()

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"missing token", http.MethodGet, "/api/v1/tickets", "", http.StatusUnauthorized},
		{"unknown token", http.MethodGet, "/api/v1/tickets", "forged", http.StatusUnauthorized},
		{"student cannot approve", http.MethodPost, "/api/v1/tickets/t-1/approve", "student", http.StatusForbidden},
		{"student cannot submit", http.MethodPost, "/api/v1/tickets", "student", http.StatusForbidden},
		{"student cannot resolve", http.MethodPost, "/api/v1/students/s-1/mushaf/entries/e-1/resolve", "student", http.StatusForbidden},
		{"docs hidden in production", http.MethodGet, "/docs/index.html", "", http.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
