package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type body struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, body{Code: 0, Message: "ok", Data: data})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(http.StatusOK, body{Code: code, Message: message})
}

// ErrorWithData reports a failure that still carries a payload, e.g.
// a generation failure where the retrieved context must reach the caller.
func ErrorWithData(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(http.StatusOK, body{Code: code, Message: message, Data: data})
}
