package handler

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON body of every error response
type ErrorBody struct {
	Detail string `json:"detail"`
}

// respondSuccess writes data as the response body. Bodies are unwrapped
// because browser extension clients read fields like "label" directly.
func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

func respondError(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, ErrorBody{Detail: detail})
}
