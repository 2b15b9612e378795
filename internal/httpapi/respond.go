package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"restaurant-pos/internal/common/logging"
	"restaurant-pos/internal/domain"
)

var validate = validator.New()

type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindAuthentication:
		return http.StatusUnauthorized
	case domain.KindAuthorization:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps the error taxonomy to a status class. Terminals display the
// message verbatim, so storage causes stay out of the response body.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := domain.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	var de *domain.Error
	if errors.As(err, &de) {
		msg = de.Msg
	}
	if status >= 500 {
		logging.Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
		if msg == "" {
			msg = "internal error"
		}
	}
	writeJSON(w, status, errorBody{Error: msg})
}

// decode unmarshals the body into v and applies its validation tags.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.Wrap(domain.KindValidation, "invalid JSON body", err)
	}
	if err := validate.Struct(v); err != nil {
		return domain.Wrap(domain.KindValidation, "invalid request", err)
	}
	return nil
}
