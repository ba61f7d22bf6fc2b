package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/example/storefront/pkg/cart"
	"github.com/example/storefront/pkg/catalog"
	"github.com/example/storefront/pkg/checkout"
	"github.com/example/storefront/pkg/config"
	"github.com/example/storefront/pkg/models"
	"github.com/example/storefront/pkg/pricing"
)

// OrderReader lists placed orders for the order history view.
type OrderReader interface {
	ListOrders(ctx context.Context, limit int64) ([]models.Order, error)
}

// NewsletterWriter records newsletter signups.
type NewsletterWriter interface {
	SubscribeNewsletter(ctx context.Context, email string) error
}

type Gateway struct {
	config     *config.Config
	logger     *zap.Logger
	router     *gin.Engine
	catalog    *catalog.Service
	store      *cart.Store
	calc       *pricing.Calculator
	submission *checkout.Submission
	orders     OrderReader
	newsletter NewsletterWriter
}

func NewGateway(
	cfg *config.Config,
	logger *zap.Logger,
	catalogSvc *catalog.Service,
	store *cart.Store,
	calc *pricing.Calculator,
	submission *checkout.Submission,
	orders OrderReader,
	newsletter NewsletterWriter,
) *Gateway {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(loggerMiddleware(logger))

	return &Gateway{
		config:     cfg,
		logger:     logger,
		router:     router,
		catalog:    catalogSvc,
		store:      store,
		calc:       calc,
		submission: submission,
		orders:     orders,
		newsletter: newsletter,
	}
}

func (g *Gateway) SetupRoutes() {
	// Health check
	g.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := g.router.Group("/api/v1")
	{
		products := v1.Group("/products")
		{
			products.GET("", g.listProducts)
			products.GET("/:id", g.getProduct)
		}

		cartRoutes := v1.Group("/cart")
		{
			cartRoutes.GET("", g.getCart)
			cartRoutes.POST("/items", g.addCartItem)
			cartRoutes.DELETE("/items/:id", g.removeCartItem)
			cartRoutes.DELETE("", g.clearCart)
			cartRoutes.GET("/totals", g.getCartTotals)
		}

		v1.POST("/checkout", g.placeOrder)
		v1.GET("/orders", g.listOrders)
		v1.POST("/newsletter", g.subscribeNewsletter)
	}

	// Swagger
	g.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	g.logger.Info("Gateway starting", zap.String("address", addr))
	return g.router.Run(addr)
}

func (g *Gateway) listProducts(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("grouped") == "true" {
		groups, err := g.catalog.ByCategory(ctx)
		if err != nil {
			g.logger.Error("Failed to group products", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": groups})
		return
	}

	var (
		products []models.Product
		err      error
	)
	if c.Query("featured") == "true" {
		products, err = g.catalog.Featured(ctx)
	} else {
		products, err = g.catalog.Products(ctx)
	}
	if err != nil {
		g.logger.Error("Failed to list products", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "catalog unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"total":    len(products),
	})
}

func (g *Gateway) getProduct(c *gin.Context) {
	product, err := g.catalog.Product(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (g *Gateway) getCart(c *gin.Context) {
	resp := gin.H{
		"items":       g.store.Items(),
		"count":       g.store.Len(),
		"total_price": g.store.TotalPrice(),
	}
	if msg, ok := g.store.Notice(); ok {
		resp["notice"] = msg
	}
	c.JSON(http.StatusOK, resp)
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

func (g *Gateway) addCartItem(c *gin.Context) {
	var req addItemRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := g.catalog.Product(c.Request.Context(), req.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	item := g.store.Add(*product, req.Size, req.Color)
	c.JSON(http.StatusCreated, gin.H{
		"item":  item,
		"count": g.store.Len(),
	})
}

func (g *Gateway) removeCartItem(c *gin.Context) {
	g.store.Remove(c.Param("id"))
	c.JSON(http.StatusOK, gin.H{
		"count": g.store.Len(),
	})
}

func (g *Gateway) clearCart(c *gin.Context) {
	g.store.Clear()
	c.JSON(http.StatusOK, gin.H{"count": 0})
}

func (g *Gateway) getCartTotals(c *gin.Context) {
	c.JSON(http.StatusOK, g.calc.ComputeTotals(g.store.Items()))
}

func (g *Gateway) placeOrder(c *gin.Context) {
	var form checkout.Form
	if err := c.BindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orderID, err := g.submission.Submit(c.Request.Context(), form)
	if err != nil {
		status := checkoutStatus(err)
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": orderID,
		"status":   models.OrderStatusPlaced,
	})
}

// checkoutStatus maps typed checkout failures onto HTTP statuses; the
// cart is preserved on every failure, so retries are always safe.
func checkoutStatus(err error) int {
	var missing *checkout.MissingFieldError
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrSubmitInFlight):
		return http.StatusConflict
	case errors.As(err, &missing):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrInvalidPaymentDetail):
		return http.StatusUnprocessableEntity
	case errors.Is(err, checkout.ErrPersistence):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (g *Gateway) listOrders(c *gin.Context) {
	orders, err := g.orders.ListOrders(c.Request.Context(), 0)
	if err != nil {
		g.logger.Error("Failed to list orders", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "orders unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"total":  len(orders),
	})
}

type newsletterRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func (g *Gateway) subscribeNewsletter(c *gin.Context) {
	var req newsletterRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := g.newsletter.SubscribeNewsletter(c.Request.Context(), req.Email); err != nil {
		g.logger.Error("Failed to record newsletter signup", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "signup failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"subscribed": true})
}

func loggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
