package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/SrClauss/balanco-silvanateodoro/internal/cache"
	"github.com/SrClauss/balanco-silvanateodoro/internal/database"
	"github.com/SrClauss/balanco-silvanateodoro/internal/handlers"
	"github.com/SrClauss/balanco-silvanateodoro/internal/models"
)

func RegisterRoutes(router *gin.Engine, store database.Store, cch *cache.Cache, log *zap.Logger) {
	suppliers := handlers.NewResource[models.Supplier](store, cch, log)
	brands := handlers.NewResource[models.Brand](store, cch, log)
	tags := handlers.NewResource[models.Tag](store, cch, log)
	products := handlers.NewProductHandler(store, cch, log)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/v1")
	{
		v1.POST("/suppliers", suppliers.Create)
		v1.GET("/suppliers", suppliers.List)
		v1.POST("/suppliers/search", suppliers.Search)
		v1.GET("/suppliers/:id", suppliers.GetByID)
		v1.PUT("/suppliers/:id", suppliers.Update)
		v1.DELETE("/suppliers/:id", suppliers.Delete)

		v1.POST("/brands", brands.Create)
		v1.GET("/brands", brands.List)
		v1.POST("/brands/search", brands.Search)
		v1.GET("/brands/:id", brands.GetByID)
		v1.PUT("/brands/:id", brands.Update)
		v1.DELETE("/brands/:id", brands.Delete)

		v1.POST("/tags", tags.Create)
		v1.GET("/tags", tags.List)
		v1.POST("/tags/search", tags.Search)
		v1.GET("/tags/:id", tags.GetByID)
		v1.PUT("/tags/:id", tags.Update)
		v1.DELETE("/tags/:id", tags.Delete)

		v1.POST("/products", products.Create)
		v1.GET("/products", products.List)
		v1.POST("/products/search", products.Search)
		v1.GET("/products/next-code", products.NextCode)
		v1.GET("/products/by-description", products.ByDescription)
		v1.GET("/products/by-brand", products.ByBrand)
		v1.GET("/products/by-supplier/:id", products.BySupplier)
		v1.POST("/products/by-tags", products.ByTags)
		v1.GET("/products/:id", products.GetByID)
		v1.PUT("/products/:id", products.Update)
		v1.DELETE("/products/:id", products.Delete)
	}
}
