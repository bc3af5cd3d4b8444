package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response[T any] struct {
	Code ErrorCode `json:"code"`
	Data T         `json:"data"`
	Msg  string    `json:"msg"`
}

// wrapResponse serializes the envelope with the HTTP status implied by code.
func wrapResponse(c *gin.Context, httpCode int, msg string, data any, code ErrorCode) {
	c.JSON(httpCode, gin.H{
		"code": code,
		"data": data,
		"msg":  msg,
	})
}

// Success sends a 200 response with the provided data.
func Success(c *gin.Context, data any) {
	wrapResponse(c, http.StatusOK, "", data, OK)
}

// Created sends a 201 response for writes that added something new.
func Created(c *gin.Context, msg string, data any) {
	wrapResponse(c, http.StatusCreated, msg, data, OK)
}

// Accepted answers a write with 201 when it created something and with 200
// when it only found what already existed, so resubmission is not an error.
func Accepted(c *gin.Context, created bool, msg string, data any) {
	if created {
		Created(c, msg, data)
		return
	}
	wrapResponse(c, http.StatusOK, msg, data, OK)
}

// Error sends an error response with the specified message and error code.
func Error(c *gin.Context, msg string, errorCode ErrorCode) {
	wrapResponse(c, errorCode.HTTPStatus(), msg, nil, errorCode)
}

// HTTPError sends an HTTP error response with the specified HTTP code, error message, and error code.
func HTTPError(c *gin.Context, httpCode int, msg string, errorCode ErrorCode) {
	wrapResponse(c, httpCode, msg, nil, errorCode)
}

// BadRequestError answers a request whose body or parameters could not be bound.
func BadRequestError(c *gin.Context, msg string) {
	HTTPError(c, http.StatusBadRequest, msg, InvalidRequest)
}
