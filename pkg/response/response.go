// Package response writes the JSON envelope every endpoint of the service
// answers with.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Envelope is the body of every response. Error is set whenever Success is false.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
}

type ErrorInfo struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorCode is the machine readable error kind clients switch on.
type ErrorCode string

const (
	CodeBadRequest   ErrorCode = "BAD_REQUEST"
	CodeUnauthorized ErrorCode = "UNAUTHORIZED"
	CodeForbidden    ErrorCode = "FORBIDDEN"
	CodeNotFound     ErrorCode = "NOT_FOUND"
	CodeConflict     ErrorCode = "CONFLICT"
	CodeValidation   ErrorCode = "VALIDATION_ERROR"
	CodeRateLimited  ErrorCode = "RATE_LIMIT_EXCEEDED"
	CodeInternal     ErrorCode = "INTERNAL_ERROR"
	CodeUnavailable  ErrorCode = "SERVICE_UNAVAILABLE"
)

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

// Created answers a new slot proposal.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message answers state changes that return no resource, such as accept and reject.
func Message(c *gin.Context, message string) {
	OK(c, gin.H{"message": message})
}

// Fail writes an error envelope. An empty message falls back to the status text.
func Fail(c *gin.Context, status int, code ErrorCode, message string) {
	if message == "" {
		message = http.StatusText(status)
	}
	c.JSON(status, Envelope{Error: &ErrorInfo{Code: code, Message: message}})
}

func BadRequest(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, CodeBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	Fail(c, http.StatusUnauthorized, CodeUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	Fail(c, http.StatusForbidden, CodeForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, CodeNotFound, message)
}

// Conflict reports a transition the negotiation state machine refused.
func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, CodeConflict, message)
}

// ValidationError reports a proposal whose time window breaks the scheduling rules.
func ValidationError(c *gin.Context, message string) {
	Fail(c, http.StatusUnprocessableEntity, CodeValidation, message)
}

func TooManyRequests(c *gin.Context, message string) {
	Fail(c, http.StatusTooManyRequests, CodeRateLimited, message)
}

// InternalError never carries the underlying error; callers log it.
func InternalError(c *gin.Context, message string) {
	Fail(c, http.StatusInternalServerError, CodeInternal, message)
}

// Unavailable reports a failed dependency check, with data describing it.
func Unavailable(c *gin.Context, data any) {
	c.JSON(http.StatusServiceUnavailable, Envelope{
		Data:  data,
		Error: &ErrorInfo{Code: CodeUnavailable, Message: http.StatusText(http.StatusServiceUnavailable)},
	})
}
