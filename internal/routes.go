package internal

import (
	"commitblock/internal/controllers"
	"commitblock/internal/providers"
	"net/http"
)

func InitRoutes(apiController *controllers.ApiController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/status", http.HandlerFunc(apiController.GetStatus))
	routers.Get("/hosts", http.HandlerFunc(apiController.GetHosts))
	routers.Put("/hosts", http.HandlerFunc(apiController.PutHosts))
	return routers
}
