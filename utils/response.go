package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Respond writes data as JSON with the given status code.
func Respond(ctx *gin.Context, status int, data interface{}) {
	ctx.JSON(status, data)
}

// Success returns a 200 with the resource as the body.
func Success(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusOK, data)
}

// Created returns a 201 with the new resource as the body.
func Created(ctx *gin.Context, data interface{}) {
	Respond(ctx, http.StatusCreated, data)
}

// Error returns a standard error response. code is the app code, e.g. 40401.
func Error(ctx *gin.Context, status int, code int, message string) {
	Respond(ctx, status, ErrorResponse{Code: code, Message: message})
}
