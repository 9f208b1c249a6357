package utils

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StatusError is implemented by domain errors that carry a client message and
// the HTTP status they map to.
type StatusError interface {
	error
	HTTPStatus() int
	ClientMessage() string
}

// Responder writes the {success, message, ...} envelope. With Strict unset every
// domain failure goes out as 200 so clients that only read "success" keep working.
type Responder struct {
	Strict bool
	Logger *zap.Logger
}

// OK writes a success body merged with extra fields.
func (r Responder) OK(c *gin.Context, message string, extra gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail maps err to the failure envelope. Errors without a client message are
// logged and reported as an internal error.
func (r Responder) Fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal Server Error"

	var se StatusError
	if errors.As(err, &se) {
		status = se.HTTPStatus()
		message = se.ClientMessage()
		r.logger().Warn(message, zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		r.logger().Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	r.FailWith(c, status, message)
}

// FailWith writes a failure with an explicit status and message.
func (r Responder) FailWith(c *gin.Context, status int, message string) {
	if !r.Strict {
		status = http.StatusOK
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Message: message})
}

func (r Responder) logger() *zap.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return GetLogger()
}
