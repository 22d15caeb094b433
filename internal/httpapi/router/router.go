package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	cataloghandler "github.com/hleeroa/Autoshop/internal/catalog/handler"
	"github.com/hleeroa/Autoshop/internal/httpapi"
	importhandler "github.com/hleeroa/Autoshop/internal/importer/handler"
	orderhandler "github.com/hleeroa/Autoshop/internal/order/handler"
	userhandler "github.com/hleeroa/Autoshop/internal/user/handler"
)

type Handlers struct {
	Catalog *cataloghandler.CatalogHandler
	Order   *orderhandler.OrderHandler
	User    *userhandler.UserHandler
	Import  *importhandler.PartnerImportHandler
}

// New builds the gin engine with all API routes mounted under /api/v1.
func New(resolver httpapi.UserResolver, h *Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api/v1")
	auth := httpapi.AuthRequired(resolver)
	shop := httpapi.ShopRequired()

	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/shops", h.Catalog.ListShops)
	api.GET("/products", h.Catalog.SearchListings)

	basket := api.Group("/basket", auth)
	{
		basket.GET("", h.Order.GetBasket)
		basket.POST("", h.Order.AddItems)
		basket.PUT("", h.Order.UpdateItems)
		basket.DELETE("", h.Order.RemoveItems)
	}

	orders := api.Group("/order", auth)
	{
		orders.GET("", h.Order.ListOrders)
		orders.POST("", h.Order.PlaceOrder)
	}

	partner := api.Group("/partner", auth, shop)
	{
		partner.POST("/update", h.Import.Update)
		partner.GET("/update/:id", h.Import.Status)
		partner.GET("/state", h.Catalog.ShopState)
		partner.POST("/state", h.Catalog.SetShopState)
		partner.GET("/orders", h.Order.PartnerOrders)
	}

	users := api.Group("/user")
	{
		users.POST("/register", h.User.Register)
		users.POST("/register/confirm", h.User.ConfirmEmail)
		users.POST("/login", h.User.Login)
		users.POST("/password_reset", h.User.RequestPasswordReset)
		users.POST("/password_reset/confirm", h.User.ResetPassword)

		details := users.Group("/details", auth)
		details.GET("", h.User.Details)
		details.POST("", h.User.UpdateDetails)

		contacts := users.Group("/contact", auth)
		contacts.GET("", h.User.Contacts)
		contacts.POST("", h.User.CreateContact)
		contacts.PUT("", h.User.UpdateContact)
		contacts.DELETE("", h.User.DeleteContacts)
	}

	return engine
}
