package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dummyHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(body))
	})
}

func TestRouterProvider_GetAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/test", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, "/test", routes[0].Url)
	assert.Equal(t, http.MethodGet, routes[0].Method)
}

func TestRouterProvider_PutAddsRoute(t *testing.T) {
	rp := NewRouterProvider()
	rp.Put("/hosts", dummyHandler("ok"))

	routes := rp.GetRoutes()
	require.Len(t, routes, 1)
	assert.Equal(t, http.MethodPut, routes[0].Method)
}

func TestRouterProvider_MuxDispatchesByMethod(t *testing.T) {
	rp := NewRouterProvider()
	rp.Get("/hosts", dummyHandler("get"))
	rp.Put("/hosts", dummyHandler("put"))
	rp.Get("/status", dummyHandler("status"))
	mux := rp.Mux()

	for method, body := range map[string]string{http.MethodGet: "get", http.MethodPut: "put"} {
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, httptest.NewRequest(method, "/hosts", nil))
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, body, rr.Body.String())
	}

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/status", nil))
	assert.Equal(t, "status", rr.Body.String())
}

func TestMethodHandler_WrongMethod(t *testing.T) {
	handler := methodHandler(map[string]http.Handler{http.MethodGet: dummyHandler("ok")})

	req := httptest.NewRequest(http.MethodPost, "/test", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
