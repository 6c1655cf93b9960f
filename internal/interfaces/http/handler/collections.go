package handler

import (
	"github.com/gin-gonic/gin"
	leasingapp "github.com/leaseledger/backend/internal/application/leasing"
)

// CollectionsHandler handles collections tracking API endpoints
type CollectionsHandler struct {
	BaseHandler
	collectionsService *leasingapp.CollectionsService
}

// NewCollectionsHandler creates a new CollectionsHandler
func NewCollectionsHandler(collectionsService *leasingapp.CollectionsService) *CollectionsHandler {
	return &CollectionsHandler{
		collectionsService: collectionsService,
	}
}

// Pending godoc
// @ID           listPendingCollections
// @Summary      List pending collections
// @Description  Retrieve leases with an outstanding balance, oldest move-in first
// @Tags         collections
// @Produce      json
// @Success      200 {object} APIResponse[[]leasing.Lease]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /collections/pending [get]
func (h *CollectionsHandler) Pending(c *gin.Context) {
	leases, err := h.collectionsService.PendingCollections(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leases)
}

// History godoc
// @ID           listCollectionsHistory
// @Summary      List collections history
// @Description  Retrieve leases that were charged off, with optional filtering
// @Tags         collections
// @Produce      json
// @Param        agent_id query string false "Agent ID" format(uuid)
// @Param        complex query string false "Complex name (partial match)"
// @Param        tenant_name query string false "Tenant name (partial match)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} APIResponse[[]leasing.Lease]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /collections/history [get]
func (h *CollectionsHandler) History(c *gin.Context) {
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

	leases, err := h.collectionsService.CollectionsHistory(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, leases)
}

// Sweep godoc
// @ID           runChargebackSweep
// @Summary      Run the chargeback sweep
// @Description  Charge off unpaid leases older than the stale threshold
// @Tags         collections
// @Produce      json
// @Success      200 {object} APIResponse[leasingapp.SweepResult]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /collections/sweep [post]
func (h *CollectionsHandler) Sweep(c *gin.Context) {
	result, err := h.collectionsService.RunChargebackSweep(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
