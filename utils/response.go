package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"success": true, "data": data})
}

// JSONError writes the error envelope. details may be nil.
func JSONError(c *gin.Context, code int, errCode, message string, details interface{}) {
	body := gin.H{"code": errCode, "message": message}
	if details != nil {
		body["details"] = details
	}
	c.JSON(code, gin.H{"success": false, "error": body})
}
