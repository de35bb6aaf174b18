package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psds-microservice/helpy/paths"
	"github.com/psds-microservice/repair-service/api"
	"github.com/psds-microservice/repair-service/internal/handler"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type Deps struct {
	Orders      *handler.OrderHandler
	Technicians *handler.TechnicianHandler
	Admin       *handler.AdminHandler
	Store       handler.Pinger
	Log         *zap.Logger
}

func New(d Deps) (http.Handler, error) {
	if err := handler.RegisterValidators(); err != nil {
		return nil, fmt.Errorf("validators: %w", err)
	}
	r := gin.New()
	r.Use(RequestLogger(d.Log), Recovery(d.Log))
	r.GET(paths.PathHealth, handler.Health)
	r.GET(paths.PathReady, handler.Ready(d.Store))
	r.GET(paths.PathSwagger, func(c *gin.Context) { c.Redirect(http.StatusFound, paths.PathSwagger+"/") })
	r.GET(paths.PathSwagger+"/*any", func(c *gin.Context) {
		if strings.TrimPrefix(c.Param("any"), "/") == "openapi.json" {
			c.Data(http.StatusOK, "application/json", api.OpenAPISpec)
			return
		}
		if strings.TrimPrefix(c.Param("any"), "/") == "" {
			c.Request.URL.Path = paths.PathSwagger + "/index.html"
			c.Request.RequestURI = paths.PathSwagger + "/index.html"
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL(paths.PathSwagger+"/openapi.json"))(c)
	})

	a := r.Group("/api")
	{
		a.GET("/orders", d.Orders.List)
		a.GET("/orders/export", d.Orders.Export)
		a.GET("/orders/:id", d.Orders.Get)
		a.POST("/orders", d.Orders.Create)
		a.PUT("/orders/:id", d.Orders.Update)
		a.DELETE("/orders/:id", d.Orders.Delete)
		a.GET("/orders-stats", d.Orders.Stats)

		a.GET("/technicians", d.Technicians.List)
		a.GET("/technicians/:id", d.Technicians.Get)
		a.POST("/technicians", d.Technicians.Create)
		a.PUT("/technicians/:id", d.Technicians.Update)
		a.DELETE("/technicians/:id", d.Technicians.Delete)

		a.GET("/admin/profile", d.Admin.Profile)
		a.PUT("/admin/profile", d.Admin.UpdateProfile)
		a.POST("/admin/login", d.Admin.Login)
		a.PUT("/admin/password", d.Admin.ChangePassword)
	}

	return r, nil
}
