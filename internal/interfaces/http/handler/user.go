package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	identityapp "github.com/leaseledger/backend/internal/application/identity"
	"github.com/leaseledger/backend/internal/domain/identity"
)

// UserHandler handles user management API endpoints
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// CreateUserRequest represents a request to create a new user account
// @Description Request body for creating a new user
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100" example:"jsmith"`
	Password string `json:"password" binding:"required,min=8,max=128" example:"s3cret-pass"`
	Email    string `json:"email" binding:"omitempty,email,max=200" example:"jsmith@example.com"`
	Fname    string `json:"fname" binding:"required,min=1,max=100" example:"Jane"`
	Lname    string `json:"lname" binding:"required,min=1,max=100" example:"Smith"`
	Role     string `json:"role" binding:"required,oneof=owner agent" example:"agent"`
}

// UpdateUserRequest represents a request to update a user account
// @Description Request body for updating a user
type UpdateUserRequest struct {
	Email *string `json:"email" binding:"omitempty,email,max=200" example:"new@example.com"`
	Fname *string `json:"fname" binding:"omitempty,min=1,max=100" example:"Jane"`
	Lname *string `json:"lname" binding:"omitempty,min=1,max=100" example:"Doe"`
	Role  *string `json:"role" binding:"omitempty,oneof=owner agent" example:"agent"`
}

// ListUsersQuery represents query parameters for listing users
type ListUsersQuery struct {
	Keyword            string `form:"keyword"`
	Status             string `form:"status" binding:"omitempty,oneof=active locked deactivated"`
	Role               string `form:"role" binding:"omitempty,oneof=owner agent"`
	IncludeDeactivated bool   `form:"include_deactivated"`
	Page               int    `form:"page"`
	PageSize           int    `form:"page_size"`
	SortBy             string `form:"sort_by"`
	SortOrder          string `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// ResetPasswordRequest represents a request to reset a user's password
// @Description Request body for resetting a user's password
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// Create godoc
// @ID           createUser
// @Summary      Create a new user
// @Description  Create a new user account with the given role
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User creation request"
// @Success      201 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      403 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	user, err := h.userService.Create(c.Request.Context(), identityapp.CreateUserInput{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Fname:    req.Fname,
		Lname:    req.Lname,
		Role:     identity.Role(req.Role),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, user)
}

// GetByID godoc
// @ID           getUserById
// @Summary      Get user by ID
// @Description  Retrieve a user account by its ID
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Description  Retrieve a paginated list of user accounts with optional filtering
// @Tags         users
// @Produce      json
// @Param        keyword query string false "Search keyword (username, email, name)"
// @Param        status query string false "User status" Enums(active, locked, deactivated)
// @Param        role query string false "User role" Enums(owner, agent)
// @Param        include_deactivated query bool false "Include deactivated users"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Param        sort_by query string false "Sort field" default(created_at)
// @Param        sort_order query string false "Sort direction" Enums(asc, desc) default(desc)
// @Success      200 {object} APIResponse[[]identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query ListUsersQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := identity.NewUserFilter()
	filter.Keyword = query.Keyword
	filter.IncludeDeactivated = query.IncludeDeactivated
	if query.Status != "" {
		status := identity.UserStatus(query.Status)
		filter.Status = &status
	}
	if query.Role != "" {
		role := identity.Role(query.Role)
		filter.Role = &role
	}
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}
	if query.SortBy != "" {
		filter.SortBy = query.SortBy
	}
	if query.SortOrder != "" {
		filter.SortOrder = query.SortOrder
	}

	result, err := h.userService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Users, result.Total, result.Page, result.PageSize)
}

// ListAgents godoc
// @ID           listAgents
// @Summary      List agents
// @Description  Retrieve all active users with the agent role
// @Tags         users
// @Produce      json
// @Success      200 {object} APIResponse[[]identityapp.UserDTO]
// @Failure      401 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /agents [get]
func (h *UserHandler) ListAgents(c *gin.Context) {
	agents, err := h.userService.ListAgents(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, agents)
}

// Update godoc
// @ID           updateUser
// @Summary      Update a user
// @Description  Update an existing user account's details
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body UpdateUserRequest true "User update request"
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      409 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [put]
func (h *UserHandler) Update(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	input := identityapp.UpdateUserInput{
		ID:    userID,
		Email: req.Email,
		Fname: req.Fname,
		Lname: req.Lname,
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		input.Role = &role
	}

	user, err := h.userService.Update(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Description  Deactivate an active user account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Deactivate(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Reactivate godoc
// @ID           reactivateUser
// @Summary      Reactivate a user
// @Description  Reactivate a deactivated user account
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/reactivate [post]
func (h *UserHandler) Reactivate(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Reactivate(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// Unlock godoc
// @ID           unlockUser
// @Summary      Unlock a user
// @Description  Clear a user's failed login lock
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Success      200 {object} APIResponse[identityapp.UserDTO]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      422 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	user, err := h.userService.Unlock(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, user)
}

// ResetPassword godoc
// @ID           resetUserPassword
// @Summary      Reset a user's password
// @Description  Set a new password for the target user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id path string true "User ID" format(uuid)
// @Param        request body ResetPasswordRequest true "New password"
// @Success      200 {object} APIResponse[MessageData]
// @Failure      400 {object} dto.ErrorResponse
// @Failure      401 {object} dto.ErrorResponse
// @Failure      404 {object} dto.ErrorResponse
// @Failure      500 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/reset-password [post]
func (h *UserHandler) ResetPassword(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid user ID format")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.userService.ResetPassword(c.Request.Context(), userID, req.NewPassword); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, MessageData{Message: "Password reset successfully"})
}
