package response

import (
	"encoding/json"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the wire shape every endpoint replies with.
// Data is omitted on errors, Errors and RetryAfter only appear
// on failed validation and rate-limited responses respectively.
type Envelope struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Data       any    `json:"data"`
	Errors     any    `json:"errors,omitempty"`
	RetryAfter int    `json:"retry_after,omitempty"`
}

func JSONOkResponse(w http.ResponseWriter, data any, message string, headers http.Header) error {
	if message == "" {
		message = "Request successful"
	}

	envelope := &Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}

	return JSONWithHeaders(w, http.StatusOK, envelope, headers)
}

func JSONCreatedResponse(w http.ResponseWriter, data any, message string) error {
	if message == "" {
		message = "Request successful"
	}

	envelope := &Envelope{
		Status:  StatusSuccess,
		Message: message,
		Data:    data,
	}

	return JSONWithHeaders(w, http.StatusCreated, envelope, nil)
}

func JSONErrorResponse(w http.ResponseWriter, errs any, message string, status int, headers http.Header) error {
	if message == "" {
		message = "Request failed"
	}
	if status == 0 {
		status = http.StatusInternalServerError
	}

	envelope := &Envelope{
		Status:  StatusError,
		Message: message,
		Errors:  errs,
	}

	return JSONWithHeaders(w, status, envelope, headers)
}

func JSONRateLimitedResponse(w http.ResponseWriter, message string, retryAfter int) error {
	if message == "" {
		message = "Too many requests, please try again later"
	}

	envelope := &Envelope{
		Status:     StatusError,
		Message:    message,
		RetryAfter: retryAfter,
	}

	return JSONWithHeaders(w, http.StatusTooManyRequests, envelope, nil)
}

func JSONWithHeaders(w http.ResponseWriter, status int, envelope *Envelope, headers http.Header) error {
	js, err := json.MarshalIndent(envelope, "", "\t")
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	w.Write(js)

	return nil
}
