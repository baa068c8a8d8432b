package testinfra

import (
	"context"
	"net/http"
	"net/http/httptest"

	"oficina/authority"
	"oficina/session"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

// BuildSession fabricates an authenticated session for tests.
func BuildSession(tenantId types.ID, roles ...string) *session.Session {
	return &session.Session{
		Token: "test-token",
		Identity: session.Identity{
			ID: 1, Name: "tester", Nickname: "Tester",
		},
		TenantID: tenantId,
		Perms:    authority.Permissions(roles),
		Context:  context.Background(),
	}
}

// ExecuteRequest runs a request through the engine and returns the response.
func ExecuteRequest(req *http.Request, router *gin.Engine) (int, string, http.Header) {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code, w.Body.String(), w.Header()
}
