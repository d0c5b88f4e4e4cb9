package mission

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Vovarama1992/auv-mission-bridge/internal/vehicle"
)

type Handler struct {
	svc      Generator
	defaults DefaultsWriter
	outbound Outbound
	log      *logrus.Logger
}

// NewHandler wires the HTTP surface. outbound may be nil.
func NewHandler(svc Generator, defaults DefaultsWriter, outbound Outbound, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, defaults: defaults, outbound: outbound, log: log}
}

// HandleGenerate turns an operator command into a mission document. Always 200 once
// the request itself is well-formed.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		VehicleID string         `json:"vehicle_id"`
		Command   string         `json:"command"`
		Sensors   map[string]any `json:"sensors"`
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	if payload.Command == "" {
		http.Error(w, "missing command", http.StatusBadRequest)
		return
	}

	cfg := h.svc.Generate(r.Context(), payload.Sensors, payload.Command)

	if h.outbound != nil && payload.VehicleID != "" {
		if err := h.outbound.Send(r.Context(), payload.VehicleID, cfg); err != nil {
			h.log.WithError(err).WithField("vehicle", payload.VehicleID).Warn("Dispatch to vehicle gateway failed")
		}
	}

	writeJSON(w, http.StatusOK, cfg)
}

func (h *Handler) HandleGetDefault(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.defaults.Current())
}

// HandlePutDefault replaces the fallback document. The body is validated with
// the same rules as generated output; nothing is patched.
func (h *Handler) HandlePutDefault(w http.ResponseWriter, r *http.Request) {
	var raw map[string]any
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || raw == nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	cfg, err := vehicle.ParseConfig(raw)
	if err != nil {
		var sv *vehicle.SchemaViolation
		if errors.As(err, &sv) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":      sv.Error(),
				"field":      sv.Field,
				"value":      sv.Value,
				"constraint": sv.Constraint,
			})
			return
		}
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.defaults.Replace(cfg); err != nil {
		h.log.WithError(err).Error("Failed to replace default configuration")
		http.Error(w, "could not store default configuration", http.StatusInternalServerError)
		return
	}

	h.log.WithField("targets", len(cfg.TargetSequence)).Info("Default configuration replaced by operator")
	writeJSON(w, http.StatusOK, cfg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
