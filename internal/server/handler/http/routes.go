// Package http provides HTTP routing and middleware configuration for the
// collection engine API.
package http

import (
	"net/http"

	"github.com/aaronvstory/dashbash/internal/middleware"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter constructs and returns an HTTP handler that serves the
// collection engine API. It applies JSON content-type enforcement and
// request logging, and mounts the document, collection, roster-timer and
// settings endpoints under /api.
//
// Routes:
//
//	GET    /api/document                 → full document snapshot
//	DELETE /api/document                 → reset everything to defaults
//	GET    /api/document/export          → timestamped JSON download
//	POST   /api/document/import          → apply an exported payload
//	GET    /api/statuses                 → derived-status snapshot
//	POST   /api/messages                 → append a quick-copy message
//	POST   /api/drag, /api/drop          → drag-and-drop move
//	/api/collections/{collection}/...    → generic category and item CRUD
//	POST/DELETE /api/roster/.../timer    → reuse-cooldown timer
//	/api/settings/...                    → calculator target and prices
//	GET    /api/calc                     → price-to-quantity best fit
func NewRouter(
	documentHandler *DocumentHandler,
	collectionHandler *CollectionHandler,
	settingsHandler *SettingsHandler,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Only allow requests with Content-Type: application/json
	r.Use(chiMiddleware.AllowContentType("application/json"))

	// Log each request and its metadata
	r.Use(middleware.WithRequestLogging(logger))

	r.Route("/api", func(r chi.Router) {
		r.Route("/document", func(r chi.Router) {
			r.Get("/", documentHandler.Get)
			r.Delete("/", documentHandler.Clear)
			r.Get("/export", documentHandler.Export)
			r.Post("/import", documentHandler.Import)
		})
		r.Get("/statuses", documentHandler.Status)

		r.Post("/messages", collectionHandler.AddMessage)
		r.Post("/drag", collectionHandler.Grab)
		r.Post("/drop", collectionHandler.Drop)

		r.Route("/collections/{collection}", func(r chi.Router) {
			r.Post("/categories", collectionHandler.AddCategory)
			r.Post("/move", collectionHandler.Move)
			r.Route("/categories/{categoryID}", func(r chi.Router) {
				r.Put("/", collectionHandler.RenameCategory)
				r.Delete("/", collectionHandler.DeleteCategory)
				r.Post("/collapse", collectionHandler.ToggleCategoryCollapse)
				r.Post("/reorder", collectionHandler.Reorder)
				r.Post("/items", collectionHandler.AddItem)
				r.Route("/items/{itemKey}", func(r chi.Router) {
					r.Put("/", collectionHandler.UpdateItem)
					r.Delete("/", collectionHandler.DeleteItem)
					r.Post("/collapse", collectionHandler.ToggleItemCollapse)
					r.Post("/edit", collectionHandler.ToggleEdit)
				})
			})
		})

		r.Route("/roster/{categoryID}/{accountID}/timer", func(r chi.Router) {
			r.Post("/", collectionHandler.StartTimer)
			r.Delete("/", collectionHandler.ResetTimer)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Put("/target", settingsHandler.SetTarget)
			r.Route("/prices", func(r chi.Router) {
				r.Post("/", settingsHandler.AddPrice)
				r.Delete("/", settingsHandler.ClearPrices)
				r.Delete("/{index}", settingsHandler.RemovePrice)
			})
		})
		r.Get("/calc", settingsHandler.Calculate)
	})

	return r
}
