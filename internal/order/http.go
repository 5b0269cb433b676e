package order

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// CreateOrderRequest is the REST DTO for POST /api/v1/orders/payment.
type CreateOrderRequest struct {
	UserID        string         `json:"userId" validate:"required"`
	Amount        float64        `json:"amount" validate:"required,gt=0"`
	Currency      string         `json:"currency" validate:"required,len=3"`
	PaymentMethod string         `json:"paymentMethod" validate:"required,oneof=CREDIT_CARD DEBIT_CARD PAYPAL BANK_TRANSFER"`
	Items         []ItemRequest  `json:"items" validate:"required,min=1,dive"`
}

// ItemRequest is one basket line of CreateOrderRequest.
type ItemRequest struct {
	ProductID string  `json:"productId" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

// OrderResponse is the REST DTO returned by both endpoints.
type OrderResponse struct {
	OrderID            string  `json:"orderId"`
	SagaID             string  `json:"sagaId"`
	UserID             string  `json:"userId"`
	Amount             float64 `json:"amount"`
	Currency           string  `json:"currency"`
	Status             string  `json:"status"`
	PaymentMethod      string  `json:"paymentMethod"`
	TransactionID      string  `json:"transactionId,omitempty"`
	CancellationReason string  `json:"cancellationReason,omitempty"`
}

func toResponse(o *Order) OrderResponse {
	return OrderResponse{
		OrderID:            o.OrderID,
		SagaID:             o.SagaID,
		UserID:             o.UserID,
		Amount:             o.Amount,
		Currency:           o.Currency,
		Status:             string(o.Status),
		PaymentMethod:      string(o.PaymentMethod),
		TransactionID:      o.TransactionID,
		CancellationReason: o.CancellationReason,
	}
}

// Handler adapts Service to gin routes.
type Handler struct {
	svc *Service
}

// NewHandler wraps svc for route registration.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes binds the two REST endpoints §6 names onto router.
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.POST("/api/v1/orders/payment", h.createPayment)
	router.GET("/api/v1/orders/:orderId", h.getOrder)
}

func (h *Handler) createPayment(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items := make([]Item, len(req.Items))
	for i, it := range req.Items {
		items[i] = Item{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price}
	}

	o, err := h.svc.InitiatePayment(c.Request.Context(), CreateRequest{
		UserID:        req.UserID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		PaymentMethod: PaymentMethod(req.PaymentMethod),
		Items:         items,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toResponse(o))
}

func (h *Handler) getOrder(c *gin.Context) {
	orderID := c.Param("orderId")
	userID := c.GetHeader("X-User-Id")

	o, err := h.svc.GetOrder(c.Request.Context(), orderID, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toResponse(o))
}
