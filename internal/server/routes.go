package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxviazov/poster-api/internal/openapi"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const (
	DocumentPath = "/swagger"
	UIPath       = "/docs"
)

// SetupRoutes mounts the application routes under the base path and exposes
// the generated document and Swagger UI next to them.
//   - GET <base>/swagger: the OpenAPI document as JSON
//   - GET <base>/docs/*any: Swagger UI loading that document
func (s *Server) SetupRoutes(mount func(r *openapi.Router)) {
	base := s.engine.Group(s.cfg.BasePath)
	if mount != nil {
		mount(openapi.NewRouter(base, s.docs))
	}

	base.GET(DocumentPath, s.document)
	ui := ginSwagger.WrapHandler(swaggerFiles.Handler,
		ginSwagger.URL(s.cfg.BasePath+DocumentPath),
		ginSwagger.InstanceName(s.docs.InstanceName()),
	)
	base.GET(UIPath+"/*any", func(c *gin.Context) {
		// gin-swagger only serves index.html for an explicit path.
		if p := c.Param("any"); p == "" || p == "/" {
			c.Redirect(http.StatusMovedPermanently, s.cfg.BasePath+UIPath+"/index.html")
			return
		}
		ui(c)
	})
}

func (s *Server) document(c *gin.Context) {
	body, err := s.docs.JSON()
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}
