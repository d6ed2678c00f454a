package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/farmabill/backend/internal/application/billing"
	"github.com/farmabill/backend/internal/interfaces/http/middleware"
)

// TransactionHandler handles billing transaction endpoints
type TransactionHandler struct {
	BaseHandler
	transactionService *billingapp.TransactionService
	paymentService     *billingapp.PaymentService
	invoiceService     *billingapp.InvoiceService
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(
	transactionService *billingapp.TransactionService,
	paymentService *billingapp.PaymentService,
	invoiceService *billingapp.InvoiceService,
) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		paymentService:     paymentService,
		invoiceService:     invoiceService,
	}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req billingapp.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /transactions/:id
func (h *TransactionHandler) GetByID(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	resp, err := h.transactionService.GetByID(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter billingapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.transactionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ListOverdue handles GET /transactions/overdue
func (h *TransactionHandler) ListOverdue(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter billingapp.TransactionListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.transactionService.ListOverdue(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// MarkPaid handles POST /transactions/:id/pay
func (h *TransactionHandler) MarkPaid(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	var req billingapp.MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.MarkPaid(c.Request.Context(), tenantID, transactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /transactions/:id/cancel
func (h *TransactionHandler) Cancel(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	var req billingapp.CancelTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cancelledBy := middleware.UserID(c)
	resp, err := h.transactionService.Cancel(c.Request.Context(), tenantID, transactionID, cancelledBy, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Refund handles POST /transactions/:id/refund
func (h *TransactionHandler) Refund(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	var req billingapp.RefundTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.Refund(c.Request.Context(), tenantID, transactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkFailed handles POST /transactions/:id/fail
func (h *TransactionHandler) MarkFailed(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	var req billingapp.FailTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.transactionService.MarkFailed(c.Request.Context(), tenantID, transactionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreatePaymentLink handles POST /transactions/:id/payment-link
func (h *TransactionHandler) CreatePaymentLink(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	resp, err := h.paymentService.CreatePaymentLink(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GenerateInvoice handles POST /transactions/:id/invoice
func (h *TransactionHandler) GenerateInvoice(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	resp, err := h.invoiceService.Generate(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// InvoiceDownloadURL handles GET /transactions/:id/invoice
func (h *TransactionHandler) InvoiceDownloadURL(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	transactionID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid transaction id")
		return
	}

	resp, err := h.invoiceService.DownloadURL(c.Request.Context(), tenantID, transactionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
