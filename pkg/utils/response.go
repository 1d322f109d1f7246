package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse writes the uniform failure body {success:false, message}.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// AbortWithError writes the failure body and stops the middleware chain.
func AbortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"message": message,
	})
}

// SuccessResponse writes {success:true, message, ...fields}. Fields are merged
// at the top level so clients read body.report, body.token and so on.
func SuccessResponse(c *gin.Context, status int, message string, fields gin.H) {
	body := gin.H{
		"success": true,
		"message": message,
	}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(status, body)
}
