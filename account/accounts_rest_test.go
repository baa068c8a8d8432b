package account

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"oficina/bizerror"
	"oficina/session"
	"oficina/testinfra"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestHandleResetUserSecret(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	RegisterUsersRestAPI(router)

	t.Run("reset secret successfully", func(t *testing.T) {
		var resetId types.ID
		var resetSecret string
		ResetUserSecretFunc = func(id types.ID, r *SecretResetting, s *session.Session) error {
			resetId = id
			resetSecret = r.NewSecret
			return nil
		}

		req := httptest.NewRequest(http.MethodPut, PathUsers+"/200/basic-auths",
			strings.NewReader(`{"newSecret": "renovada1"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNoContent))
		Expect(body).To(BeEmpty())
		Expect(resetId).To(Equal(types.ID(200)))
		Expect(resetSecret).To(Equal("renovada1"))
	})

	t.Run("unknown user", func(t *testing.T) {
		ResetUserSecretFunc = func(id types.ID, r *SecretResetting, s *session.Session) error {
			return bizerror.ErrNotFound
		}

		req := httptest.NewRequest(http.MethodPut, PathUsers+"/200/basic-auths",
			strings.NewReader(`{"newSecret": "renovada1"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found",
			"message":"record not found", "data":null}`))
	})

	t.Run("forbidden", func(t *testing.T) {
		ResetUserSecretFunc = func(id types.ID, r *SecretResetting, s *session.Session) error {
			return bizerror.ErrForbidden
		}

		req := httptest.NewRequest(http.MethodPut, PathUsers+"/200/basic-auths",
			strings.NewReader(`{"newSecret": "renovada1"}`))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusForbidden))
		Expect(body).To(MatchJSON(`{"code":"security.forbidden",
			"message":"access forbidden", "data":null}`))
	})
}
