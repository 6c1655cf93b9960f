package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leasingapp "github.com/leaseledger/backend/internal/application/leasing"
	"github.com/leaseledger/backend/internal/domain/leasing"
)

// PaymentEntryHandler handles payment entry API endpoints nested under leases
type PaymentEntryHandler struct {
	BaseHandler
	entryService *leasingapp.PaymentEntryService
}

// NewPaymentEntryHandler creates a new PaymentEntryHandler
func NewPaymentEntryHandler(entryService *leasingapp.PaymentEntryService) *PaymentEntryHandler {
	return &PaymentEntryHandler{
		entryService: entryService,
	}
}

// CreateEntryRequest represents a request to post a ledger entry against a lease
// @Description Request body for creating a payment entry
type CreateEntryRequest struct {
	Type   string  `json:"type" binding:"required,oneof=advance payment adjustment chargeback" example:"payment"`
	Amount float64 `json:"amount" binding:"required" example:"500.00"`
	Date   string  `json:"date" binding:"required" example:"2024-06-15"`
	Notes  string  `json:"notes" binding:"max=2000" example:"Check #1042"`
}

// UpdateEntryRequest represents a request to correct an existing ledger entry
// @Description Request body for updating a payment entry
type UpdateEntryRequest struct {
	Type   string  `json:"type" binding:"required,oneof=advance payment adjustment chargeback"`
	Amount float64 `json:"amount" binding:"required"`
	Date   string  `json:"date" binding:"required"`
	Notes  string  `json:"notes" binding:"max=2000"`
}

// Create godoc
// @ID           createPaymentEntry
// @Summary      Post a payment entry
// @Description  Record a ledger entry against a lease and recompute its balances
// @Tags         payment-entries
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        request body CreateEntryRequest true "Entry creation request"
// @Success      201 {object} APIResponse[leasing.PaymentEntry]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/entries [post]
func (h *PaymentEntryHandler) Create(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	var req CreateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid entry date format")
		return
	}

	entry, err := h.entryService.CreateEntry(c.Request.Context(), leasingapp.CreateEntryRequest{
		LeaseID: leaseID,
		Type:    leasing.PaymentType(req.Type),
		Amount:  toDecimal(req.Amount),
		Date:    date,
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, entry)
}

// List godoc
// @ID           listPaymentEntries
// @Summary      List payment entries
// @Description  Retrieve the full ledger history for a lease, oldest first
// @Tags         payment-entries
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[[]leasing.PaymentEntry]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/entries [get]
func (h *PaymentEntryHandler) List(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	entries, err := h.entryService.ListEntries(c.Request.Context(), leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// GetByID godoc
// @ID           getPaymentEntryById
// @Summary      Get payment entry by ID
// @Description  Retrieve a single ledger entry
// @Tags         payment-entries
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        entryId path string true "Entry ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.PaymentEntry]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/entries/{entryId} [get]
func (h *PaymentEntryHandler) GetByID(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	entry, err := h.entryService.GetEntry(c.Request.Context(), entryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Update godoc
// @ID           updatePaymentEntry
// @Summary      Update a payment entry
// @Description  Correct an existing ledger entry and recompute the lease balances
// @Tags         payment-entries
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        entryId path string true "Entry ID" format(uuid)
// @Param        request body UpdateEntryRequest true "Entry update request"
// @Success      200 {object} APIResponse[leasing.PaymentEntry]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/entries/{entryId} [put]
func (h *PaymentEntryHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	var req UpdateEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid entry date format")
		return
	}

	entry, err := h.entryService.UpdateEntry(c.Request.Context(), leasingapp.UpdateEntryRequest{
		EntryID: entryID,
		Type:    leasing.PaymentType(req.Type),
		Amount:  toDecimal(req.Amount),
		Date:    date,
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entry)
}

// Delete godoc
// @ID           deletePaymentEntry
// @Summary      Delete a payment entry
// @Description  Remove a ledger entry and recompute the lease balances
// @Tags         payment-entries
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        entryId path string true "Entry ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/entries/{entryId} [delete]
func (h *PaymentEntryHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("entryId"))
	if err != nil {
		h.BadRequest(c, "Invalid entry ID format")
		return
	}

	if err := h.entryService.DeleteEntry(c.Request.Context(), entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
