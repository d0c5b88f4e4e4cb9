package audit

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	repo Repo
	log  *logrus.Logger
}

func NewHandler(repo Repo, log *logrus.Logger) *Handler {
	return &Handler{repo: repo, log: log}
}

// HandleInvocation returns every recorded stage of one pipeline run.
func (h *Handler) HandleInvocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	records, err := h.repo.GetInvocation(r.Context(), id)
	if err != nil {
		h.log.WithError(err).WithField("invocation", id).Error("Failed to read pipeline events")
		http.Error(w, "storage error", http.StatusInternalServerError)
		return
	}
	if len(records) == 0 {
		http.Error(w, "invocation not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(records)
}

func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/mission/invocations/{id}", h.HandleInvocation)
}
