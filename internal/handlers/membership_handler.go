package handlers

import (
	"io"
	"net/http"

	"footwork_backend/internal/appErrors"
	"footwork_backend/internal/middleware"
	"footwork_backend/internal/models"
	"footwork_backend/internal/services"
	"footwork_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type MembershipHandler struct {
	*BaseHandler
	membershipService     services.MembershipService
	reconciliationService services.ReconciliationService

	// limiter throttles purchase endpoints; nil disables throttling
	limiter gin.HandlerFunc
}

func NewMembershipHandler(
	base *BaseHandler,
	membershipService services.MembershipService,
	reconciliationService services.ReconciliationService,
	limiter gin.HandlerFunc,
) *MembershipHandler {
	if limiter == nil {
		limiter = func(c *gin.Context) { c.Next() }
	}
	return &MembershipHandler{
		BaseHandler:           base,
		membershipService:     membershipService,
		reconciliationService: reconciliationService,
		limiter:               limiter,
	}
}

func (h *MembershipHandler) RegisterRoutes(r *gin.RouterGroup) {
	memberships := r.Group("/memberships")
	{
		memberships.GET("/plans", h.GetPlans)
	}

	protected := r.Group("/memberships")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/current", h.GetCurrent)
		protected.GET("/history", h.GetHistory)
		protected.PUT("/cancel", h.Cancel)
	}

	// Purchase and upgrade are candidate flows.
	purchase := r.Group("/memberships")
	purchase.Use(middleware.AuthMiddleware(), middleware.RequireRoles(models.UserRoleCandidate))
	{
		purchase.POST("/checkout", h.limiter, h.CreateCheckout)
		purchase.GET("/checkout/:sessionId", h.GetCheckoutStatus)
		purchase.POST("/confirm", h.limiter, h.ConfirmPayment)
		purchase.POST("/upgrade", h.limiter, h.Upgrade)
	}

	// External callback, authenticated by signature instead of a bearer token.
	r.POST("/webhooks/stripe", h.StripeWebhook)
}

func (h *MembershipHandler) GetPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": services.PlanCatalogue()})
}

func (h *MembershipHandler) GetCurrent(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	membership, err := h.membershipService.GetActive(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MembershipToResponse(membership))
}

func (h *MembershipHandler) GetHistory(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	memberships, err := h.membershipService.ListHistory(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"memberships": dto.MembershipsToResponse(memberships)})
}

func (h *MembershipHandler) Cancel(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	membership, err := h.membershipService.Cancel(h.GetDB(c), userID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.MembershipToResponse(membership))
}

func (h *MembershipHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.CreateCheckoutRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	sess, err := h.reconciliationService.CreateCheckoutSession(c.Request.Context(), h.GetDB(c), userID, req.PlanType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutSessionResponse{
		SessionID:    sess.ID,
		ClientSecret: sess.ClientSecret,
	})
}

func (h *MembershipHandler) GetCheckoutStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	sess, err := h.reconciliationService.GetCheckoutStatus(c.Request.Context(), userID, c.Param("sessionId"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutStatusResponse{
		Status:          sess.Status,
		CustomerEmail:   sess.CustomerEmail,
		PaymentIntentID: sess.PaymentIntentID,
	})
}

func (h *MembershipHandler) ConfirmPayment(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.ConfirmPaymentRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	membership, err := h.reconciliationService.ConfirmPayment(c.Request.Context(), h.GetDB(c), userID, req.PaymentIntentID, req.PlanType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	if membership == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Payment already processed"})
		return
	}

	c.JSON(http.StatusOK, dto.MembershipToResponse(membership))
}

func (h *MembershipHandler) Upgrade(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req dto.UpgradeRequest
	if !h.BindAndValidateJSON(c, &req) {
		return
	}

	intent, err := h.reconciliationService.RequestUpgrade(c.Request.Context(), h.GetDB(c), userID, req.PlanType)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.UpgradeResponse{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		AmountCents:     intent.AmountCents,
		Currency:        "usd",
	})
}

// StripeWebhook receives provider deliveries. The raw body must reach
// signature verification untouched.
func (h *MembershipHandler) StripeWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		appErrors.HandleError(c, appErrors.ErrMalformedPayload)
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := h.reconciliationService.HandleWebhook(h.GetDB(c), payload, sigHeader); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
