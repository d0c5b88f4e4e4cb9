package mission

import "github.com/go-chi/chi/v5"

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Post("/mission/config", h.HandleGenerate)
	r.Get("/mission/default", h.HandleGetDefault)
	r.Put("/mission/default", h.HandlePutDefault)
}
