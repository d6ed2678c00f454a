package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	clientapp "github.com/farmabill/backend/internal/application/client"
	"github.com/farmabill/backend/internal/domain/client"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService *clientapp.Service
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientService *clientapp.Service) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}

	var req clientapp.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetByID handles GET /clients/:id
func (h *ClientHandler) GetByID(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}

	resp, err := h.clientService.GetByID(c.Request.Context(), tenantID, clientID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByPhone handles GET /clients/by-phone?phone=...
func (h *ClientHandler) GetByPhone(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	phone := c.Query("phone")
	if phone == "" {
		h.BadRequest(c, "phone query parameter is required")
		return
	}

	resp, err := h.clientService.GetByPhone(c.Request.Context(), tenantID, phone)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter clientapp.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.clientService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// ListDebtors handles GET /clients/debtors
func (h *ClientHandler) ListDebtors(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}

	var filter clientapp.ClientListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.clientService.ListDebtors(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(c, page)
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}

	var req clientapp.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.Update(c.Request.Context(), tenantID, clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), tenantID, clientID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// UpdateCreditLimit handles PUT /clients/:id/credit-limit
func (h *ClientHandler) UpdateCreditLimit(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}

	var req clientapp.UpdateCreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.UpdateCreditLimit(c.Request.Context(), tenantID, clientID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeStatus returns a handler that moves the client to the given status.
// One route per transition keeps the API explicit about what each does.
func (h *ClientHandler) ChangeStatus(target client.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID, ok := pharmacyID(c)
		if !ok {
			h.Unauthorized(c, "authentication required")
			return
		}
		clientID, err := pathUUID(c, "id")
		if err != nil {
			h.BadRequest(c, "invalid client id")
			return
		}

		resp, err := h.clientService.ChangeStatus(c.Request.Context(), tenantID, clientID, target)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, resp)
	}
}

// AddTag handles POST /clients/:id/tags
func (h *ClientHandler) AddTag(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}

	var req clientapp.AddTagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	resp, err := h.clientService.AddTag(c.Request.Context(), tenantID, clientID, req.Tag)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RemoveTag handles DELETE /clients/:id/tags/:tag
func (h *ClientHandler) RemoveTag(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}
	tag := c.Param("tag")
	if tag == "" {
		h.BadRequest(c, "tag is required")
		return
	}

	resp, err := h.clientService.RemoveTag(c.Request.Context(), tenantID, clientID, tag)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CreditScore handles GET /clients/:id/credit-score
func (h *ClientHandler) CreditScore(c *gin.Context) {
	tenantID, ok := pharmacyID(c)
	if !ok {
		h.Unauthorized(c, "authentication required")
		return
	}
	clientID, err := pathUUID(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid client id")
		return
	}

	history := decimal.Zero
	if raw := c.Query("purchase_history_total"); raw != "" {
		history, err = decimal.NewFromString(raw)
		if err != nil {
			h.BadRequest(c, "invalid purchase_history_total")
			return
		}
	}

	resp, err := h.clientService.CreditScore(c.Request.Context(), tenantID, clientID, history)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
