package utils

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope every endpoint answers with. errcode 0 means success.
type Response struct {
	ErrCode int    `json:"errcode"`
	ErrMsg  string `json:"errmsg"`
	Data    any    `json:"data,omitempty"`
}

const (
	CodeSuccess      = 0
	CodeInternal     = 1000
	CodeUnauthorized = 1001
	CodeBadRequest   = 1002
	CodeRateLimited  = 1003
	CodeNotFound     = 1004
	CodeStoreTimeout = 9001
)

// ResponseJSON writes JSON response with custom status code
func ResponseJSON(w http.ResponseWriter, status int, errcode int, errmsg string, data any) {
	response := Response{
		ErrCode: errcode,
		ErrMsg:  errmsg,
		Data:    data,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response)
}

// ------------- Success responses -------------

// returns 200 OK
func ResponseSuccess(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusOK, CodeSuccess, "success", data)
}

// returns 201 Created
func ResponseCreated(w http.ResponseWriter, data any) {
	ResponseJSON(w, http.StatusCreated, CodeSuccess, "success", data)
}

// ------------- Error responses -------------

// ResponseError writes a business failure with its own errcode.
func ResponseError(w http.ResponseWriter, status int, errcode int, errmsg string) {
	ResponseJSON(w, status, errcode, errmsg, nil)
}

// returns 400 Bad Request
func ResponseBadRequest(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusBadRequest, CodeBadRequest, message)
}

// returns 401 Unauthorized
func ResponseUnauthorized(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusUnauthorized, CodeUnauthorized, message)
}

// returns 404 Not Found
func ResponseNotFound(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusNotFound, CodeNotFound, message)
}

// returns 429 Too Many Requests
func ResponseTooManyRequests(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusTooManyRequests, CodeRateLimited, message)
}

// returns 503 Service Unavailable with a retry hint
func ResponseUnavailable(w http.ResponseWriter, errcode int, message string) {
	w.Header().Set("Retry-After", "1")
	ResponseError(w, http.StatusServiceUnavailable, errcode, message)
}

// returns 500 Internal Server Error
func ResponseInternalError(w http.ResponseWriter, message string) {
	ResponseError(w, http.StatusInternalServerError, CodeInternal, message)
}
