// internal/api/handler/response.go
package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"bank-system/internal/api/middleware"
	"bank-system/internal/api/types"
	"bank-system/internal/util"
)

// DefaultTimeout bounds the handling time of a single request.
const DefaultTimeout = 15 * time.Second

const maxBodyBytes = 1 << 20

// responder carries the JSON helpers shared by all handlers.
type responder struct {
	logger *slog.Logger
}

// Helper function to send JSON responses.
func (h responder) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// Helper function to send error responses.
func (h responder) respondWithError(w http.ResponseWriter, err error) {
	statusCode := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case util.IsError(err, util.ErrInvalidInput):
		statusCode = http.StatusBadRequest
		message = err.Error()
	case util.IsError(err, util.ErrDuplicateUsername):
		statusCode = http.StatusConflict
		message = "Username already exists!"
	case util.IsError(err, util.ErrInvalidCredentials):
		statusCode = http.StatusUnauthorized
		message = "Invalid credentials!"
	case util.IsError(err, util.ErrUnauthenticated):
		statusCode = http.StatusUnauthorized
		message = middleware.UnauthenticatedMessage
	case util.IsError(err, util.ErrInsufficientFunds):
		statusCode = http.StatusPaymentRequired
		message = "Insufficient funds!"
	case util.IsError(err, util.ErrNotFound):
		statusCode = http.StatusNotFound
		message = "Resource not found"
	default:
		h.logger.Error("Unhandled service error", "error", err)
	}

	h.respondWithJSON(w, statusCode, types.ErrorResponse{Error: message})
}

// isJSON reports whether the request body is JSON. Anything else is read as
// form fields, which is what the browser frontend sends.
func isJSON(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "application/json"
}

// CredentialsRequest is the signup/login body.
type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func decodeCredentials(w http.ResponseWriter, r *http.Request) (CredentialsRequest, error) {
	var req CredentialsRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, fmt.Errorf("%w: malformed JSON body", util.ErrInvalidInput)
		}
		return req, nil
	}

	req.Username = r.FormValue("username")
	req.Password = r.FormValue("password")
	return req, nil
}

// AmountRequest is the deposit/withdraw body.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

func decodeAmount(w http.ResponseWriter, r *http.Request) (decimal.Decimal, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if isJSON(r) {
		var req AmountRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return decimal.Zero, fmt.Errorf("%w: malformed JSON body", util.ErrInvalidInput)
		}
		return req.Amount, nil
	}

	raw := r.FormValue("amount")
	if raw == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is required", util.ErrInvalidInput)
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", util.ErrInvalidInput, raw)
	}
	return amount, nil
}
