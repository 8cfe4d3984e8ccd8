package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/middleware"
)

// UserController handles user profile administration endpoints
type UserController struct {
	userService *services.UserService
}

// NewUserController creates a new UserController
func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// List returns profiles filtered by role and search text
// @Summary List users
// @Tags users
// @Produce json
// @Param role query string false "admin | officer | faculty | student"
// @Param search query string false "Matches name or email"
// @Success 200 {object} dto.APIResponse{data=[]models.Profile} "Profiles"
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Router /admin/users [get]
func (c *UserController) List(ctx *gin.Context) {
	profiles, err := c.userService.List(ctx, ctx.Query("role"), ctx.Query("search"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profiles, Timestamp: time.Now()})
}

// Get retrieves a single profile
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Profile"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [get]
func (c *UserController) Get(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	profile, err := c.userService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile, Timestamp: time.Now()})
}

// Update edits a profile's display name and role
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateProfileRequest true "New profile details"
// @Success 200 {object} dto.APIResponse{data=models.Profile} "Updated profile"
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [put]
func (c *UserController) Update(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	profile, err := c.userService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: profile, Timestamp: time.Now()})
}

// UpdateRole changes a profile's role only
// @Summary Update user role
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateRoleRequest true "New role"
// @Success 200 {object} dto.SuccessResponse "Role updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id}/role [patch]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateRoleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if err := c.userService.UpdateRole(ctx, id, req.Role); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Role updated"})
}

// Delete removes a profile. The login credential stays behind.
// @Summary Delete user profile
// @Description Removes the portal profile. The credential is kept for a later full account purge.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.SuccessResponse "Profile deleted"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/users/{id} [delete]
func (c *UserController) Delete(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Profile deleted"})
}

// Dashboard returns the admin dashboard counters
// @Summary Dashboard stats
// @Tags users
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.DashboardStats} "Portal counters"
// @Router /admin/dashboard [get]
func (c *UserController) Dashboard(ctx *gin.Context) {
	stats, err := c.userService.DashboardStats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}
