package router_test

import (
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/api-sage/movement-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/movement-ledger/src/internal/adapter/http/router"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

type pingController struct{}

func (pingController) RegisterRoutes(r chi.Router) {
	r.Get("/movements", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(middleware.CallerID(r.Context())))
	})
}

func authorized(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte("LedgerApp:LedgerKey001")))
	return req
}

func TestRouter(t *testing.T) {
	handler := router.New(pingController{}, http.NotFoundHandler(), middleware.BasicAuth("LedgerApp", "LedgerKey001"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/swagger/openapi.json", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "/transfers/{id}/revoke")

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/movements", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, authorized(httptest.NewRequest(http.MethodGet, "/movements", nil)))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "caller id is required")

	req := authorized(httptest.NewRequest(http.MethodGet, "/movements", nil))
	req.Header.Set(middleware.CallerHeader, "user-ana")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-ana", rr.Body.String())

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, authorized(httptest.NewRequest(http.MethodGet, "/notifications/ws?user=ana", nil)))
	assert.Equal(t, http.StatusNotFound, rr.Code, "reaches the notification handler")
}
