package middleware

import (
	"github.com/BerniceZTT/jira_dashboard/utils"

	"github.com/gin-gonic/gin"
)

// ErrorHandler 处理通过c.Error登记但未写出的错误
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// 已写出响应的不再处理
		if c.Writer.Written() || c.Writer.Status() >= 400 {
			return
		}

		if len(c.Errors) > 0 {
			utils.HandleError(c, c.Errors.Last().Err)
		}
	}
}
