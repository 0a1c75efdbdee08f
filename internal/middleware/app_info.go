package middleware

import (
	"github.com/haierkeys/fridge-board-service/pkg/app"

	"github.com/gin-gonic/gin"
)

// AppInfo 注入应用标识与访问来源（支持依赖注入）
func AppInfo(name string, version string) gin.HandlerFunc {

	return func(c *gin.Context) {
		c.Set("app_name", name)
		c.Set("app_version", version)
		c.Set("access_host", app.GetAccessHost(c))

		c.Next()
	}
}
