package api

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/julianstephens/habitify/internal/constants"
	"github.com/julianstephens/habitify/internal/errors"
	"github.com/julianstephens/habitify/internal/logger"
)

// responseTimestampFormat is the wall clock format clients already parse
const responseTimestampFormat = "2006-01-02 15:04:05"

// Response is the envelope of every API reply
type Response struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, response *Response) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	response.Timestamp = time.Now().Format(responseTimestampFormat)
	data, err := json.Marshal(response)
	if err != nil {
		logger.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logger.Error("Failed to write JSON response", "error", err)
	}
}

func respondSuccess(w http.ResponseWriter, message string, data interface{}) {
	respondJSON(w, http.StatusOK, &Response{Success: true, Message: message, Data: data})
}

// respondError maps err to a status code and writes its user-visible message.
// Causes are logged, never sent.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("API error", "path", sanitizeLogValue(r.URL.Path), "status", status, "error", err)
	}
	respondJSON(w, status, &Response{Success: false, Message: errors.Message(err)})
}

func statusFor(err error) int {
	switch errors.KindOf(err) {
	case errors.KindValidation:
		return http.StatusBadRequest
	case errors.KindNotFoundOrForbidden:
		return http.StatusNotFound
	case errors.KindTransientStore:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into v. An empty body leaves v untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, constants.RequestBodyLimitByte)
	if err := json.NewDecoder(body).Decode(v); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.Validation("Invalid JSON data")
	}
	return nil
}

// userIDParam reads ?user_id=; anything unparsable reads as 0 and is
// rejected by the service
func userIDParam(r *http.Request) int64 {
	id, err := strconv.ParseInt(strings.TrimSpace(r.URL.Query().Get("user_id")), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// sanitizeLogValue removes control characters to prevent log injection
func sanitizeLogValue(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7F {
			return '?'
		}
		return r
	}, s)
}
