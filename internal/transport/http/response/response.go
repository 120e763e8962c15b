package response

import "github.com/gin-gonic/gin"

// Error writes the flat error body every failure shares on this API.
func Error(c *gin.Context, httpStatus int, message string) {
	c.JSON(httpStatus, gin.H{"error": message})
}
