package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	leasingapp "github.com/leaseledger/backend/internal/application/leasing"
	"github.com/leaseledger/backend/internal/domain/leasing"
)

// DrawHandler handles agent draw API endpoints
type DrawHandler struct {
	BaseHandler
	drawService *leasingapp.DrawService
}

// NewDrawHandler creates a new DrawHandler
func NewDrawHandler(drawService *leasingapp.DrawService) *DrawHandler {
	return &DrawHandler{
		drawService: drawService,
	}
}

// CreateDrawRequest represents a request to record a draw against future commission
// @Description Request body for creating an agent draw
type CreateDrawRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0" example:"750.00"`
	Date   string  `json:"date" binding:"required" example:"2024-06-01"`
	Notes  string  `json:"notes" binding:"max=2000" example:"June advance"`
}

// UpdateDrawRequest represents a request to correct an existing draw
// @Description Request body for updating an agent draw
type UpdateDrawRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date" binding:"required"`
	Notes  string  `json:"notes" binding:"max=2000"`
}

// ListDrawsQuery represents query parameters for listing draws
type ListDrawsQuery struct {
	DateFrom string `form:"date_from"`
	DateTo   string `form:"date_to"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// Create godoc
// @ID           createDraw
// @Summary      Record an agent draw
// @Description  Record a cash draw against an agent's future commission
// @Tags         draws
// @Accept       json
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        request body CreateDrawRequest true "Draw creation request"
// @Success      201 {object} APIResponse[leasing.AgentDraw]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/draws [post]
func (h *DrawHandler) Create(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	var req CreateDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid draw date format")
		return
	}

	draw, err := h.drawService.CreateDraw(c.Request.Context(), leasingapp.CreateDrawRequest{
		AgentID: agentID,
		Amount:  toDecimal(req.Amount),
		Date:    date,
		Notes:   req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, draw)
}

// List godoc
// @ID           listDraws
// @Summary      List agent draws
// @Description  Retrieve a paginated list of draws for an agent with optional date filtering
// @Tags         draws
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        date_from query string false "Draw date range start (YYYY-MM-DD)"
// @Param        date_to query string false "Draw date range end (YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        order_by query string false "Order by field" default(date)
// @Param        order_dir query string false "Order direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]leasing.AgentDraw]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/draws [get]
func (h *DrawHandler) List(c *gin.Context) {
	agentID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid agent ID format")
		return
	}

	var query ListDrawsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	var filter leasing.AgentDrawFilter
	filter.AgentID = &agentID
	filter.Page = query.Page
	filter.PageSize = query.PageSize
	filter.OrderBy = query.OrderBy
	filter.OrderDir = query.OrderDir
	if query.DateFrom != "" {
		from, err := parseDateTime(query.DateFrom)
		if err != nil {
			h.BadRequest(c, "Invalid date_from format")
			return
		}
		filter.DateFrom = &from
	}
	if query.DateTo != "" {
		to, err := parseDateTime(query.DateTo)
		if err != nil {
			h.BadRequest(c, "Invalid date_to format")
			return
		}
		filter.DateTo = &to
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	draws, total, err := h.drawService.ListDraws(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, draws, total, filter.Page, filter.PageSize)
}

// Update godoc
// @ID           updateDraw
// @Summary      Update an agent draw
// @Description  Correct an existing draw's amount, date, or notes
// @Tags         draws
// @Accept       json
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        drawId path string true "Draw ID" format(uuid)
// @Param        request body UpdateDrawRequest true "Draw update request"
// @Success      200 {object} APIResponse[leasing.AgentDraw]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/draws/{drawId} [put]
func (h *DrawHandler) Update(c *gin.Context) {
	drawID, err := uuid.Parse(c.Param("drawId"))
	if err != nil {
		h.BadRequest(c, "Invalid draw ID format")
		return
	}

	var req UpdateDrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	date, err := parseDateTime(req.Date)
	if err != nil {
		h.BadRequest(c, "Invalid draw date format")
		return
	}

	draw, err := h.drawService.UpdateDraw(c.Request.Context(), leasingapp.UpdateDrawRequest{
		DrawID: drawID,
		Amount: toDecimal(req.Amount),
		Date:   date,
		Notes:  req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, draw)
}

// Delete godoc
// @ID           deleteDraw
// @Summary      Delete an agent draw
// @Description  Remove a draw from the agent's payout ledger
// @Tags         draws
// @Produce      json
// @Param        id path string true "Agent ID" format(uuid)
// @Param        drawId path string true "Draw ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents/{id}/draws/{drawId} [delete]
func (h *DrawHandler) Delete(c *gin.Context) {
	drawID, err := uuid.Parse(c.Param("drawId"))
	if err != nil {
		h.BadRequest(c, "Invalid draw ID format")
		return
	}

	if err := h.drawService.DeleteDraw(c.Request.Context(), drawID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
