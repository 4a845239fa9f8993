package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"shopforge/internal/domain"
	"shopforge/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

type Handler struct {
	cart     *services.CartService
	orders   *services.OrderService
	payments *services.PaymentService
	rdb      *redis.Client
}

func NewHandler(cart *services.CartService, orders *services.OrderService, payments *services.PaymentService, rdb *redis.Client) *Handler {
	return &Handler{cart: cart, orders: orders, payments: payments, rdb: rdb}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/cart", h.GetCart)
	r.GET("/cart/count", h.GetCartCount)
	r.POST("/cart/items", h.AddCartItem)
	r.PUT("/cart/items/:id", h.UpdateCartItem)
	r.DELETE("/cart/items/:id", h.RemoveCartItem)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/cart/merge", h.MergeCart)

	r.POST("/checkout", h.Checkout)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:number", h.GetOrder)
	r.POST("/orders/:number/payment", h.InitiatePayment)

	// Public endpoint the gateway redirects to; carries only the reference.
	r.GET("/payments/callback", h.PaymentCallback)

	r.PUT("/admin/orders/:number/status", h.UpdateOrderStatus)
}

// cartOwner resolves the requester: X-User-ID for logged-in users,
// X-Session-ID for guests. Authentication itself lives upstream.
func cartOwner(c *gin.Context) (domain.CartOwner, bool) {
	if v := c.GetHeader("X-User-ID"); v != "" {
		userID, err := strconv.ParseUint(v, 10, 64)
		if err == nil && userID > 0 {
			return domain.UserOwner(userID), true
		}
	}
	if v := c.GetHeader("X-Session-ID"); v != "" {
		return domain.GuestOwner(v), true
	}
	return domain.CartOwner{}, false
}

func userID(c *gin.Context) (uint64, bool) {
	v := c.GetHeader("X-User-ID")
	if v == "" {
		return 0, false
	}
	id, err := strconv.ParseUint(v, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

func (h *Handler) GetCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart owner"})
		return
	}

	lines, subtotal, err := h.cart.GetCart(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": lines, "subtotal": subtotal})
}

func (h *Handler) GetCartCount(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart owner"})
		return
	}

	ctx := c.Request.Context()
	cacheKey := cartCountKey(owner)
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, cacheKey).Result(); err == nil {
			if count, err := strconv.ParseInt(cached, 10, 64); err == nil {
				c.JSON(http.StatusOK, gin.H{"count": count})
				return
			}
		}
	}

	count, err := h.cart.Count(ctx, owner)
	if err != nil {
		writeError(c, err)
		return
	}
	if h.rdb != nil {
		h.rdb.Set(ctx, cacheKey, count, 10*time.Second)
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *Handler) AddCartItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart owner"})
		return
	}

	var req AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.cart.AddItem(c.Request.Context(), owner, req.ProductID, req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateCartCount(owner)
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart owner"})
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item id"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cart.UpdateQuantity(c.Request.Context(), owner, itemID, req.Quantity); err != nil {
		writeError(c, err)
		return
	}

	h.invalidateCartCount(owner)
	c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart owner"})
		return
	}

	itemID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item id"})
		return
	}

	if err := h.cart.RemoveItem(c.Request.Context(), owner, itemID); err != nil {
		writeError(c, err)
		return
	}

	h.invalidateCartCount(owner)
	c.JSON(http.StatusOK, gin.H{"message": "item removed"})
}

func (h *Handler) ClearCart(c *gin.Context) {
	owner, ok := cartOwner(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing cart owner"})
		return
	}

	if err := h.cart.Clear(c.Request.Context(), owner); err != nil {
		writeError(c, err)
		return
	}

	h.invalidateCartCount(owner)
	c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
}

func (h *Handler) MergeCart(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login required"})
		return
	}

	var req MergeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.cart.MergeGuestCart(c.Request.Context(), req.SessionID, uid); err != nil {
		writeError(c, err)
		return
	}

	h.invalidateCartCount(domain.UserOwner(uid))
	h.invalidateCartCount(domain.GuestOwner(req.SessionID))
	c.JSON(http.StatusOK, gin.H{"message": "cart merged"})
}

func (h *Handler) Checkout(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login required"})
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), uid, services.ShippingDetails{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Phone:      req.Phone,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Notes:      req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	h.invalidateCartCount(domain.UserOwner(uid))
	c.JSON(http.StatusCreated, CheckoutResponse{
		OrderNumber: order.OrderNumber,
		TotalAmount: order.TotalAmount,
	})
}

func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login required"})
		return
	}

	orders, err := h.orders.ListUserOrders(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	order, items, err := h.orders.GetOrderByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func (h *Handler) InitiatePayment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "login required"})
		return
	}

	params, err := h.payments.InitiatePayment(c.Request.Context(), uid, c.Param("number"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, params)
}

// PaymentCallback is replay-safe: a duplicate delivery returns the same
// success shape as the first one.
func (h *Handler) PaymentCallback(c *gin.Context) {
	result, err := h.payments.ReconcilePayment(c.Request.Context(), c.Query("reference"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateOrderStatus(c.Request.Context(), c.Param("number"), domain.OrderStatus(req.Status))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func cartCountKey(owner domain.CartOwner) string {
	if uid, ok := owner.UserID(); ok {
		return "cart:count:u" + strconv.FormatUint(uid, 10)
	}
	sid, _ := owner.SessionID()
	return "cart:count:s" + sid
}

func (h *Handler) invalidateCartCount(owner domain.CartOwner) {
	if h.rdb != nil {
		h.rdb.Del(context.Background(), cartCountKey(owner))
	}
}

func writeError(c *gin.Context, err error) {
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	var stockErr *services.InsufficientStockError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":     stockErr.Error(),
			"productId": stockErr.ProductID,
			"available": stockErr.Available,
		})
		return
	}

	switch {
	case errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrOutOfStock),
		errors.Is(err, services.ErrMissingReference):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrOrderUnresolvable):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrOrderNotPayable),
		errors.Is(err, services.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrPaymentNotSuccessful):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrVerificationUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to verify payment, please try again or contact support"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
