package response

import "github.com/gin-gonic/gin"

// Body is the JSON shape of every non-WebSocket API response
type Body struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success writes data with the success code
func Success(c *gin.Context, status int, data any) {
	c.JSON(status, Body{Code: CodeSuccess, Message: Message(CodeSuccess), Data: data})
}

// Error aborts the request with code and its default message
func Error(c *gin.Context, status, code int) {
	c.AbortWithStatusJSON(status, Body{Code: code, Message: Message(code)})
}
