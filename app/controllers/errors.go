package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"newsroom/app/clients"
	"newsroom/app/models"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// Helper methods for consistent response handling

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func sendError(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, map[string]string{"error": message})
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(w http.ResponseWriter, log *logrus.Entry, err error) {
	var validationErr *models.ValidationError
	switch {
	case errors.As(err, &validationErr):
		sendError(w, validationErr.Error(), http.StatusBadRequest)
	case models.IsInvalidStatus(err):
		sendError(w, err.Error(), http.StatusBadRequest)
	case models.IsNotFound(err):
		sendError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, clients.ErrPostServiceUnavailable):
		log.WithError(err).Warn("upstream failure")
		sendError(w, "post service unavailable", http.StatusBadGateway)
	default:
		log.WithError(err).Error("request failed")
		sendError(w, "internal server error", http.StatusInternalServerError)
	}
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON: %v", err)
	}
	return nil
}
