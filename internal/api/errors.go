package api

import (
	"github.com/gin-gonic/gin"
)

const (
	ErrorCodeValidation = "validation_error"
	ErrorCodeNotFound   = "not_found"
	ErrorCodeUpstream   = "upstream_error"
	ErrorCodeInternal   = "internal_error"
)

func JSONError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
