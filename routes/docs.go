package routes

import (
	_ "embed"
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed swagger.json
var swaggerDoc []byte

// mountDocs отдаёт описание API и Swagger UI под /docs.
func mountDocs(router chi.Router) {
	// Статический маршрут важнее wildcard: doc.json берётся из embed, а не из реестра swag.
	router.Get("/docs/doc.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(swaggerDoc)
	})
	router.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))
}
