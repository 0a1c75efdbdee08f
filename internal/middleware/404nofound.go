package middleware

import (
	"github.com/haierkeys/fridge-board-service/pkg/app"
	"github.com/haierkeys/fridge-board-service/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound 404 handler
// NoFound 404 处理
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToError(code.ErrorNotFoundAPI)
		c.Abort()
	}
}

// NoMethod 405 handler
// NoMethod 405 处理
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		response := app.NewResponse(c)
		response.ToError(code.ErrorMethodNotAllowed)
		c.Abort()
	}
}
