package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"shop-service/internal/service"
	"shop-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// serverErrMsg is the generic message for unclassified failures; internal
// details never reach the client.
const serverErrMsg = "Something went wrong, please try again."

// Handler contains HTTP handlers
type Handler struct {
	auth      *service.AuthService
	catalog   *service.CatalogService
	purchases *service.PurchaseService
}

// NewHandler creates a new HTTP handler
func NewHandler(auth *service.AuthService, catalog *service.CatalogService, purchases *service.PurchaseService) *Handler {
	return &Handler{
		auth:      auth,
		catalog:   catalog,
		purchases: purchases,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/getProducts", h.getProducts)
	router.GET("/getProductDetails/:id", h.getProductDetails)
	router.GET("/searchProducts/:term", h.searchProducts)
	router.GET("/filterProducts/:filter", h.filterProducts)
	router.POST("/validateLogin", h.validateLogin)
	router.POST("/validateTransaction", h.validateTransaction)
	router.POST("/transactionHistory", h.transactionHistory)
	router.POST("/newUser", h.newUser)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// getProducts returns the whole catalog ordered by id
func (h *Handler) getProducts(c *gin.Context) {
	products, err := h.catalog.ListProducts(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, serverErrMsg)
		return
	}
	c.JSON(http.StatusOK, products)
}

// getProductDetails returns a single product joined with its details
func (h *Handler) getProductDetails(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusBadRequest, "Product not found")
		return
	}

	detail, err := h.catalog.GetProductDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			c.String(http.StatusBadRequest, "Product not found")
			return
		}
		c.String(http.StatusInternalServerError, "Something wrong on the server")
		return
	}
	c.JSON(http.StatusOK, detail)
}

// searchProducts returns ids of products matching the search term
func (h *Handler) searchProducts(c *gin.Context) {
	refs, err := h.catalog.SearchProducts(c.Request.Context(), c.Param("term"))
	if err != nil {
		c.String(http.StatusInternalServerError, serverErrMsg)
		return
	}
	if len(refs) == 0 {
		c.String(http.StatusBadRequest, "No products found.")
		return
	}
	c.JSON(http.StatusOK, refs)
}

// filterProducts returns ids of products in the given category
func (h *Handler) filterProducts(c *gin.Context) {
	refs, err := h.catalog.FilterProducts(c.Request.Context(), c.Param("filter"))
	if err != nil {
		c.String(http.StatusInternalServerError, serverErrMsg)
		return
	}
	c.JSON(http.StatusOK, refs)
}

type credentialsRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// validateLogin checks a username/password pair
func (h *Handler) validateLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	creds, err := h.auth.CheckCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.String(http.StatusInternalServerError, serverErrMsg)
		return
	}
	if !creds.Exists {
		c.String(http.StatusNotFound, "User not found")
		return
	}
	if !creds.Valid {
		c.String(http.StatusBadRequest, "Invalid username or password")
		return
	}
	c.String(http.StatusOK, "%s", req.Username)
}

type transactionRequest struct {
	Username  string `form:"username" json:"username"`
	Password  string `form:"password" json:"password"`
	ProductID int64  `form:"productID" json:"productID"`
}

// validateTransaction runs the purchase workflow and returns the new
// transaction id
func (h *Handler) validateTransaction(c *gin.Context) {
	var req transactionRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	transactionID, err := h.purchases.Purchase(c.Request.Context(), req.Username, req.Password, req.ProductID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactionID": transactionID})
}

// transactionHistory returns a user's transactions ordered by id
func (h *Handler) transactionHistory(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Invalid request body")
		return
	}

	creds, err := h.auth.CheckCredentials(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		c.String(http.StatusInternalServerError, serverErrMsg)
		return
	}
	if !creds.Exists {
		c.String(http.StatusNotFound, "User not found.")
		return
	}
	if !creds.Valid {
		c.String(http.StatusBadRequest, "Login failed.")
		return
	}

	transactions, err := h.purchases.History(c.Request.Context(), req.Username)
	if err != nil {
		c.String(http.StatusInternalServerError, serverErrMsg)
		return
	}
	c.JSON(http.StatusOK, transactions)
}

type newUserRequest struct {
	Username        string `form:"username" json:"username"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirmPassword" json:"confirmPassword"`
}

// newUser creates a user account
func (h *Handler) newUser(c *gin.Context) {
	var req newUserRequest
	if err := c.ShouldBind(&req); err != nil {
		c.String(http.StatusBadRequest, "Missing fields.")
		return
	}

	err := h.auth.Register(c.Request.Context(), service.RegisterRequest{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.String(http.StatusOK, "User created successfully.")
}

// writeServiceError maps a service error to its status and exact message;
// anything unclassified becomes a generic 500.
func writeServiceError(c *gin.Context, err error) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		c.String(svcErr.Status, "%s", svcErr.Message)
		return
	}
	c.String(http.StatusInternalServerError, serverErrMsg)
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
