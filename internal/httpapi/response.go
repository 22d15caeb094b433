package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes the {"status": true} envelope, merged with extra fields.
func OK(c *gin.Context, extra gin.H) {
	body := gin.H{"status": true}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes the {"status": false, "error": …} envelope. Domain
// failures use HTTP 200, matching the original API contract; only
// transport-level problems use 4xx/5xx.
func Fail(c *gin.Context, status int, detail string) {
	c.JSON(status, gin.H{"status": false, "error": detail})
}

const (
	ErrLoginRequired    = "log in required"
	ErrShopsOnly        = "for shops only"
	ErrMissingArguments = "required arguments are missing"
	ErrInvalidFormat    = "invalid request format"
)
