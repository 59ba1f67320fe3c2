//go:build !integration
// +build !integration

package http_waitlist

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	repo_mocks "github.com/rankingdocopo/core/internal/usecase/waitlist/mocks/repository"

	"github.com/rankingdocopo/core/internal/model"
	usecase_waitlist "github.com/rankingdocopo/core/internal/usecase/waitlist"
)

func newRouter(t *testing.T) (*gin.Engine, *repo_mocks.WaitlistRepository) {
	gin.SetMode(gin.TestMode)

	repository := repo_mocks.NewWaitlistRepository(t)
	controller := New(usecase_waitlist.New(repository))

	router := gin.New()
	controller.RegisterRoutes(router.Group("/api/v1"))
	return router, repository
}

func TestJoinHandler(t *testing.T) {
	t.Run("Should answer 201 on a fresh signup", func(t *testing.T) {
		router, repository := newRouter(t)
		repository.On("Insert", mock.Anything, mock.MatchedBy(func(e model.WaitlistEntry) bool {
			return e.Email == "ana@example.com" && e.BarName == "Bar do Zé"
		})).Return(nil).Once()

		body := `{"name":"Ana Souza","email":"ana@example.com","barName":"Bar do Zé"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("Should answer 400 when a field is missing", func(t *testing.T) {
		router, _ := newRouter(t)

		body := `{"name":"Ana Souza","email":"","barName":"Bar do Zé"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "todos os campos são obrigatórios")
	})

	t.Run("Should answer 409 on a duplicate email", func(t *testing.T) {
		router, repository := newRouter(t)
		repository.On("Insert", mock.Anything, mock.AnythingOfType("model.WaitlistEntry")).
			Return(usecase_waitlist.ErrAlreadyRegistered).Once()

		body := `{"name":"Ana Souza","email":"ana@example.com","barName":"Bar do Zé"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/waitlist", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestUnsubscribeHandler(t *testing.T) {
	t.Run("Should answer 204 for a registered email", func(t *testing.T) {
		router, repository := newRouter(t)
		repository.On("DeleteByEmail", mock.Anything, "ana@example.com").Return(nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/waitlist/ana@example.com", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("Should answer 404 for an unknown email", func(t *testing.T) {
		router, repository := newRouter(t)
		repository.On("DeleteByEmail", mock.Anything, "ghost@example.com").
			Return(usecase_waitlist.ErrNotRegistered).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/waitlist/ghost@example.com", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
