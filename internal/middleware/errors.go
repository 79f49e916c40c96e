package middleware

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"

	"capsule/internal/domain/upload"
)

// ErrorHandler recovers from panics, logs request errors, and renders a JSON
// error for failures forwarded through c.Error by downstream middleware and
// handlers (the upload middleware funnels every parse failure here).
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				logRequestError(c, start, "panic", err.Error())
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			if c.Writer.Status() >= http.StatusInternalServerError {
				logRequestError(c, start, "http_error", fmt.Sprintf("status=%d", c.Writer.Status()))
			}
			return
		}

		for _, err := range c.Errors {
			logRequestError(c, start, fmt.Sprintf("%v", err.Type), err.Error())
		}

		if c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status, code := statusFor(err)
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
	}
}

// statusFor maps the upload error taxonomy onto HTTP statuses. Anything
// unrecognized is an internal error.
func statusFor(err error) (int, string) {
	var mimeErr *upload.UnsupportedMimeTypeError
	switch {
	case errors.As(err, &mimeErr):
		return http.StatusUnsupportedMediaType, "UNSUPPORTED_MIME_TYPE"
	case errors.Is(err, upload.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"
	case errors.Is(err, upload.ErrTooManyFiles):
		return http.StatusBadRequest, "TOO_MANY_FILES"
	case errors.Is(err, upload.ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES"
	default:
		return http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"
	}
}

func logRequestError(c *gin.Context, start time.Time, errType string, message string) {
	log.Printf(
		"request_error type=%s status=%d method=%s path=%s query=%s client_ip=%s user_id=%d request_id=%s latency=%s error=%q",
		errType,
		c.Writer.Status(),
		c.Request.Method,
		c.Request.URL.Path,
		c.Request.URL.RawQuery,
		c.ClientIP(),
		c.GetInt64("user_id"),
		requestID(c),
		time.Since(start),
		message,
	)
	if errType == "panic" {
		log.Printf("request_error_stack request_id=%s stack=%s", requestID(c), debug.Stack())
	}
}

func requestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-Id")
	}
	return requestID
}
