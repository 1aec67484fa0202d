package providers

import (
	"commitblock/internal/structures"
	"net/http"
)

type RouterProviderInterface interface {
	Get(url string, handler http.Handler)
	Put(url string, handler http.Handler)
	GetRoutes() []structures.Route
	Mux() *http.ServeMux
}

type RouterProvider struct {
	routes []structures.Route
}

func (rp *RouterProvider) Get(url string, handler http.Handler) {
	rp.add(http.MethodGet, url, handler)
}

func (rp *RouterProvider) Put(url string, handler http.Handler) {
	rp.add(http.MethodPut, url, handler)
}

func (rp *RouterProvider) add(method, url string, handler http.Handler) {
	rp.routes = append(rp.routes, structures.Route{
		Url:     url,
		Method:  method,
		Handler: handler,
	})
}

func (rp *RouterProvider) GetRoutes() []structures.Route {
	return rp.routes
}

// Mux groups routes by url so that one path can serve several methods.
func (rp *RouterProvider) Mux() *http.ServeMux {
	byURL := make(map[string]map[string]http.Handler)
	var order []string
	for _, route := range rp.routes {
		if _, ok := byURL[route.Url]; !ok {
			byURL[route.Url] = make(map[string]http.Handler)
			order = append(order, route.Url)
		}
		byURL[route.Url][route.Method] = route.Handler
	}

	mux := http.NewServeMux()
	for _, url := range order {
		mux.Handle(url, methodHandler(byURL[url]))
	}
	return mux
}

func NewRouterProvider() RouterProviderInterface {
	return &RouterProvider{}
}

func methodHandler(handlers map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handler, ok := handlers[r.Method]
		if !ok {
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		handler.ServeHTTP(w, r)
	})
}
