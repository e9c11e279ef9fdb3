package api

import (
	"encoding/json"
	"net/http"
	"time"

	"bikerental/tracker/internal/apperr"
	"bikerental/tracker/internal/models/dtos/responses"
)

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	resp := responses.APIResponse[T]{
		Status:    "success",
		Timestamp: time.Now().UTC(),
		Data:      data,
	}

	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithError(w http.ResponseWriter, statusCode int, code string, message string) {
	resp := responses.APIResponse[any]{
		Status:    "error",
		Timestamp: time.Now().UTC(),
		Code:      code,
		Error:     message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	_ = json.NewEncoder(w).Encode(resp)
}

func respondWithAppError(w http.ResponseWriter, err *apperr.Error) {
	respondWithError(w, StatusForKind(err.Kind), string(err.Kind), err.Message)
}

// StatusForKind maps a store fault to the HTTP status it is served with.
func StatusForKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindRemoteUnavailable:
		return http.StatusBadGateway
	case apperr.KindConfiguration, apperr.KindCredentials:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
