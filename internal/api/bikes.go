package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"bikerental/tracker/internal/apperr"
	"bikerental/tracker/internal/constants"
	reqctx "bikerental/tracker/internal/context"
	"bikerental/tracker/internal/logging"
	"bikerental/tracker/internal/models/dtos/requests"
	"bikerental/tracker/internal/store"
)

// maxBodyBytes caps toggle and status request bodies.
const maxBodyBytes = 64 << 10

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// ListBikes handles GET /api/v1/bikes
func (h *Handlers) ListBikes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := h.deps.Bikes.ListAll(r.Context())
		if !res.Success {
			h.fail(r, "list bikes", res.Error)
			respondWithAppError(w, res.Error)
			return
		}
		respondWithSuccess(w, http.StatusOK, &res.Data)
	}
}

type countResponse struct {
	Count int `json:"count"`
}

// CountBikes handles GET /api/v1/bikes/count
func (h *Handlers) CountBikes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res := h.deps.Bikes.Count(r.Context())
		if !res.Success {
			h.fail(r, "count bikes", res.Error)
			respondWithAppError(w, res.Error)
			return
		}
		respondWithSuccess(w, http.StatusOK, &countResponse{Count: res.Data})
	}
}

// GetBike handles GET /api/v1/bikes/{id}
func (h *Handlers) GetBike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathBikeID(w, r)
		if !ok {
			return
		}

		res := h.deps.Bikes.GetByID(r.Context(), id)
		if !res.Success {
			h.fail(r, "get bike", res.Error)
			respondWithAppError(w, res.Error)
			return
		}
		if res.Data == nil {
			respondWithError(w, http.StatusNotFound, constants.ErrCodeNotFound, fmt.Sprintf("Bike with ID %d not found", id))
			return
		}
		respondWithSuccess(w, http.StatusOK, res.Data)
	}
}

// ToggleBike handles POST /api/v1/bikes/{id}/toggle
//
// Accepts the bike form fields (bikeId, currentStatus, userName) either form
// encoded or as JSON. A bikeId in the body must match the path.
func (h *Handlers) ToggleBike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathBikeID(w, r)
		if !ok {
			return
		}

		var body requests.ToggleBikeRequest
		if err := decodeToggle(w, r, &body); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.ErrCodeValidation, err.Error())
			return
		}
		if bodyID := strings.TrimSpace(body.BikeID); bodyID != "" && bodyID != strconv.Itoa(id) {
			respondWithError(w, http.StatusBadRequest, constants.ErrCodeValidation, constants.MsgBikeIDMismatch)
			return
		}

		res := h.deps.Bikes.Toggle(r.Context(), store.ToggleRequest{
			ID:            id,
			CurrentStatus: body.CurrentStatus,
			UserName:      body.UserName,
		})
		if !res.Success {
			h.fail(r, "toggle bike", res.Error)
			respondWithAppError(w, res.Error)
			return
		}
		respondWithSuccess(w, http.StatusOK, &res.Data)
	}
}

// SetBikeStatus handles PUT /api/v1/bikes/{id}/status
func (h *Handlers) SetBikeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathBikeID(w, r)
		if !ok {
			return
		}

		var body requests.SetStatusRequest
		r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondWithError(w, http.StatusBadRequest, constants.ErrCodeValidation, constants.MsgInvalidJSONBody)
			return
		}

		res := h.deps.Bikes.SetStatus(r.Context(), id, body.Status, body.User)
		if !res.Success {
			h.fail(r, "set bike status", res.Error)
			respondWithAppError(w, res.Error)
			return
		}
		respondWithSuccess(w, http.StatusOK, &res.Data)
	}
}

func (h *Handlers) fail(r *http.Request, op string, err *apperr.Error) {
	logger := logging.WithRequest(reqctx.GetRequestID(r.Context()), r.Method, r.URL.Path)
	if err.Kind == apperr.KindValidation || err.Kind == apperr.KindNotFound {
		logger.Infow("Request rejected", "operation", op, "kind", string(err.Kind), "error", err.Message)
		return
	}
	logger.Errorw("Request failed", "operation", op, "kind", string(err.Kind), "error", err.Error())
}

func pathBikeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		respondWithError(w, http.StatusBadRequest, constants.ErrCodeValidation, constants.MsgInvalidBikeID)
		return 0, false
	}
	return id, true
}

func decodeToggle(w http.ResponseWriter, r *http.Request, body *requests.ToggleBikeRequest) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(body); err != nil {
			return errors.New(constants.MsgInvalidJSONBody)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return errors.New(constants.MsgInvalidFormBody)
	}
	body.BikeID = r.PostFormValue("bikeId")
	body.CurrentStatus = r.PostFormValue("currentStatus")
	body.UserName = r.PostFormValue("userName")
	return nil
}
