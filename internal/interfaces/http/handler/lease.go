package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leasingapp "github.com/leaseledger/backend/internal/application/leasing"
	"github.com/leaseledger/backend/internal/domain/leasing"
)

// LeaseHandler handles lease-related API endpoints
type LeaseHandler struct {
	BaseHandler
	leaseService *leasingapp.LeaseService
}

// NewLeaseHandler creates a new LeaseHandler
func NewLeaseHandler(leaseService *leasingapp.LeaseService) *LeaseHandler {
	return &LeaseHandler{
		leaseService: leaseService,
	}
}

// CreateLeaseRequest represents a request to record a new lease
// @Description Request body for creating a new lease
type CreateLeaseRequest struct {
	AgentID           string   `json:"agent_id" binding:"required,uuid" example:"6ba7b810-9dad-11d1-80b4-00c04fd430c8"`
	InvoiceNumber     string   `json:"invoice_number" binding:"required,min=1,max=50" example:"INV-2024-0042"`
	Complex           string   `json:"complex" binding:"required,min=1,max=200" example:"Riverside Commons"`
	ApartmentNumber   string   `json:"apartment_number" binding:"max=50" example:"12B"`
	TenantFname       string   `json:"tenant_fname" binding:"required,min=1,max=100" example:"Alex"`
	TenantLname       string   `json:"tenant_lname" binding:"required,min=1,max=100" example:"Rivera"`
	TenantEmail       string   `json:"tenant_email" binding:"omitempty,email,max=200" example:"alex@example.com"`
	RentAmount        float64  `json:"rent_amount" binding:"required,gt=0" example:"1850.00"`
	CommissionType    string   `json:"commission_type" binding:"required,oneof=flat percent" example:"percent"`
	CommissionPercent *float64 `json:"commission_percent" binding:"omitempty,gt=0,lte=100" example:"85"`
	Commission        float64  `json:"commission" binding:"omitempty,gte=0" example:"1572.50"`
	MoveInDate        string   `json:"move_in_date" binding:"required" example:"2024-06-01"`
	ExtraNotes        string   `json:"extra_notes" binding:"max=2000" example:"Renewal, waived app fee"`
}

// UpdateLeaseRequest represents a request to update a lease
// @Description Request body for updating a lease
type UpdateLeaseRequest struct {
	InvoiceNumber     string   `json:"invoice_number" binding:"required,min=1,max=50"`
	Complex           string   `json:"complex" binding:"required,min=1,max=200"`
	ApartmentNumber   string   `json:"apartment_number" binding:"max=50"`
	TenantFname       string   `json:"tenant_fname" binding:"required,min=1,max=100"`
	TenantLname       string   `json:"tenant_lname" binding:"required,min=1,max=100"`
	TenantEmail       string   `json:"tenant_email" binding:"omitempty,email,max=200"`
	RentAmount        float64  `json:"rent_amount" binding:"required,gt=0"`
	CommissionType    string   `json:"commission_type" binding:"required,oneof=flat percent"`
	CommissionPercent *float64 `json:"commission_percent" binding:"omitempty,gt=0,lte=100"`
	Commission        float64  `json:"commission" binding:"omitempty,gte=0"`
	MoveInDate        string   `json:"move_in_date" binding:"required"`
	ExtraNotes        string   `json:"extra_notes" binding:"max=2000"`
}

// ListLeasesQuery represents query parameters for listing leases
type ListLeasesQuery struct {
	AgentID        string `form:"agent_id" binding:"omitempty,uuid"`
	PaidStatus     string `form:"paid_status" binding:"omitempty,oneof=unpaid partially paid chargeback"`
	Complex        string `form:"complex"`
	TenantName     string `form:"tenant_name"`
	InvoiceNumber  string `form:"invoice_number"`
	MoveInFrom     string `form:"move_in_from"`
	MoveInTo       string `form:"move_in_to"`
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// LeaseDetailResponse represents a lease with its payment entries
type LeaseDetailResponse struct {
	Lease   *leasing.Lease         `json:"lease"`
	Entries []leasing.PaymentEntry `json:"entries"`
}

func (q ListLeasesQuery) toFilter() (leasing.LeaseFilter, error) {
	var filter leasing.LeaseFilter
	filter.Page = q.Page
	filter.PageSize = q.PageSize
	filter.OrderBy = q.OrderBy
	filter.OrderDir = q.OrderDir

	if q.AgentID != "" {
		id, err := uuid.Parse(q.AgentID)
		if err != nil {
			return filter, err
		}
		filter.AgentID = &id
	}
	if q.PaidStatus != "" {
		status := leasing.PaidStatus(q.PaidStatus)
		filter.PaidStatus = &status
	}
	if q.Complex != "" {
		filter.Complex = &q.Complex
	}
	if q.TenantName != "" {
		filter.TenantName = &q.TenantName
	}
	if q.InvoiceNumber != "" {
		filter.InvoiceNumber = &q.InvoiceNumber
	}
	if q.MoveInFrom != "" {
		from, err := parseDateTime(q.MoveInFrom)
		if err != nil {
			return filter, err
		}
		filter.MoveInFrom = &from
	}
	if q.MoveInTo != "" {
		to, err := parseDateTime(q.MoveInTo)
		if err != nil {
			return filter, err
		}
		filter.MoveInTo = &to
	}
	return filter, nil
}

// Create godoc
// @ID           createLease
// @Summary      Create a new lease
// @Description  Record a new lease placement with its commission terms
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        request body CreateLeaseRequest true "Lease creation request"
// @Success      201 {object} APIResponse[leasing.Lease]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases [post]
func (h *LeaseHandler) Create(c *gin.Context) {
	var req CreateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	agentID, err := uuid.Parse(req.AgentID)
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	moveInDate, err := parseDateTime(req.MoveInDate)
	if err != nil {
		h.BadRequest(c, "Invalid move-in date format")
		return
	}

	appReq := leasingapp.CreateLeaseRequest{
		AgentID:         agentID,
		InvoiceNumber:   req.InvoiceNumber,
		Complex:         req.Complex,
		ApartmentNumber: req.ApartmentNumber,
		TenantFname:     req.TenantFname,
		TenantLname:     req.TenantLname,
		TenantEmail:     req.TenantEmail,
		RentAmount:      toDecimal(req.RentAmount),
		CommissionType:  leasing.CommissionType(req.CommissionType),
		Commission:      toDecimal(req.Commission),
		MoveInDate:      moveInDate,
		ExtraNotes:      req.ExtraNotes,
	}
	if req.CommissionPercent != nil {
		appReq.CommissionPercent = toDecimalPtr(*req.CommissionPercent)
	}

	lease, err := h.leaseService.CreateLease(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, lease)
}

// GetByID godoc
// @ID           getLeaseById
// @Summary      Get lease by ID
// @Description  Retrieve a lease with its full payment entry history
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[LeaseDetailResponse]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [get]
func (h *LeaseHandler) GetByID(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	detail, err := h.leaseService.GetLease(c.Request.Context(), leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LeaseDetailResponse{
		Lease:   detail.Lease,
		Entries: detail.Entries,
	})
}

// List godoc
// @ID           listLeases
// @Summary      List leases
// @Description  Retrieve a paginated list of leases with optional filtering
// @Tags         leases
// @Produce      json
// @Param        agent_id query string false "Agent ID" format(uuid)
// @Param        paid_status query string false "Payment status" Enums(unpaid, partially, paid, chargeback)
// @Param        complex query string false "Complex name (partial match)"
// @Param        tenant_name query string false "Tenant name (partial match)"
// @Param        invoice_number query string false "Exact invoice number"
// @Param        move_in_from query string false "Move-in date range start (YYYY-MM-DD)"
// @Param        move_in_to query string false "Move-in date range end (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(move_in_date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]leasing.Lease]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases [get]
func (h *LeaseHandler) List(c *gin.Context) {
	var query ListLeasesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter, err := query.toFilter()
	if err != nil {
		h.BadRequest(c, "Invalid filter parameters")
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	leases, total, err := h.leaseService.ListLeases(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, leases, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateLease
// @Summary      Update a lease
// @Description  Update a lease's details and recompute its derived balances
// @Tags         leases
// @Accept       json
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Param        request body UpdateLeaseRequest true "Lease update request"
// @Success      200 {object} APIResponse[leasing.Lease]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [put]
func (h *LeaseHandler) Update(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	var req UpdateLeaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	moveInDate, err := parseDateTime(req.MoveInDate)
	if err != nil {
		h.BadRequest(c, "Invalid move-in date format")
		return
	}

	appReq := leasingapp.UpdateLeaseRequest{
		LeaseID:         leaseID,
		InvoiceNumber:   req.InvoiceNumber,
		Complex:         req.Complex,
		ApartmentNumber: req.ApartmentNumber,
		TenantFname:     req.TenantFname,
		TenantLname:     req.TenantLname,
		TenantEmail:     req.TenantEmail,
		RentAmount:      toDecimal(req.RentAmount),
		CommissionType:  leasing.CommissionType(req.CommissionType),
		Commission:      toDecimal(req.Commission),
		MoveInDate:      moveInDate,
		ExtraNotes:      req.ExtraNotes,
	}
	if req.CommissionPercent != nil {
		appReq.CommissionPercent = toDecimalPtr(*req.CommissionPercent)
	}

	lease, err := h.leaseService.UpdateLease(c.Request.Context(), appReq)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}

// Delete godoc
// @ID           deleteLease
// @Summary      Delete a lease
// @Description  Soft delete a lease and its payment history
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id} [delete]
func (h *LeaseHandler) Delete(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	if err := h.leaseService.DeleteLease(c.Request.Context(), leaseID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Recompute godoc
// @ID           recomputeLease
// @Summary      Recompute lease balances
// @Description  Re-derive the lease's paid balance and status from its entry history
// @Tags         leases
// @Produce      json
// @Param        id path string true "Lease ID" format(uuid)
// @Success      200 {object} APIResponse[leasing.Lease]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /leases/{id}/recompute [post]
func (h *LeaseHandler) Recompute(c *gin.Context) {
	leaseID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid lease ID format")
		return
	}

	lease, err := h.leaseService.RecomputeLease(c.Request.Context(), leaseID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lease)
}
