package response

import (
	"encoding/json"
	"net/http"

	"jobconnect/internal/common"
)

type ErrorCollector interface {
	IncErrors()
}

var errorCollector ErrorCollector

// SetErrorCollector registers the sink counting 5xx responses. Call once at startup.
func SetErrorCollector(collector ErrorCollector) {
	errorCollector = collector
}

// ErrorRecorder is implemented by response writers that want to see the error behind a 5xx.
type ErrorRecorder interface {
	RecordError(err error)
}

type errorBody struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func JSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func Error(w http.ResponseWriter, err error) {
	appErr, ok := common.As(err)
	if !ok {
		appErr = common.NewError(common.CodeInternal, "internal server error", err)
	}
	status := StatusFor(appErr.Code)
	body := errorBody{Message: appErr.Message, Fields: appErr.Fields}
	if status >= http.StatusInternalServerError {
		body.Message = "internal server error"
		body.Fields = nil
		recordError(w, err)
		if errorCollector != nil {
			errorCollector.IncErrors()
		}
	}
	JSON(w, status, body)
}

func StatusFor(code common.Code) int {
	switch code {
	case common.CodeValidation, common.CodeConflict:
		return http.StatusBadRequest
	case common.CodeUnauthorized:
		return http.StatusUnauthorized
	case common.CodeForbidden:
		return http.StatusForbidden
	case common.CodeNotFound:
		return http.StatusNotFound
	case common.CodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// recordError walks wrapped writers until one accepts the error.
func recordError(w http.ResponseWriter, err error) {
	for w != nil {
		if recorder, ok := w.(ErrorRecorder); ok {
			recorder.RecordError(err)
			return
		}
		unwrapper, ok := w.(interface{ Unwrap() http.ResponseWriter })
		if !ok {
			return
		}
		w = unwrapper.Unwrap()
	}
}
