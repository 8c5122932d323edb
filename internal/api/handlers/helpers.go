package handlers

import (
	"encoding/json"
	"errors"
	"fleet-charging-service/internal/domain"
	"fleet-charging-service/internal/platform/obs"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.WithFields(logrus.Fields{
			"method": r.Method,
			"path":   r.URL.Path,
		}).WithError(err).Error("encode failed")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}

// writeDomainError maps routing and registry errors onto HTTP statuses.
// Unknown errors are logged and reported as 500 without detail.
func writeDomainError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrOutOfRangeDistrict), errors.Is(err, domain.ErrInvalidDistance):
		writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrMissingTruck):
		writeError(w, r, http.StatusConflict, "no truck available in fleet")
	case errors.Is(err, domain.ErrInvalidMatrix):
		writeError(w, r, http.StatusConflict, "no districts configured")
	case errors.Is(err, domain.ErrInfeasible):
		writeError(w, r, http.StatusUnprocessableEntity, "no route visits every district and returns to the origin")
	default:
		logrus.WithField("req_id", obs.RequestID(r.Context())).WithError(err).Errorf("%s failed", op)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
	}
}

// decodeBody decodes exactly one JSON object. An empty body leaves v untouched.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return errors.New("invalid json body")
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain only one JSON object")
	}
	return nil
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	return false
}
