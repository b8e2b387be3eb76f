// Package docs serves the OpenAPI description of the HTTP API.
package docs

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//go:embed openapi.json
var OpenAPI []byte

// Register mounts GET /openapi.json and the swagger UI at /swagger/index.html
func Register(engine *gin.Engine) {
	engine.GET("/openapi.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", OpenAPI)
	})
	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/openapi.json")))
}
