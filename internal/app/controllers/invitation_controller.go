package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/middleware"
)

// InvitationController handles the invitation token lifecycle endpoints
type InvitationController struct {
	invitationService *services.InvitationService
}

// NewInvitationController creates a new InvitationController
func NewInvitationController(invitationService *services.InvitationService) *InvitationController {
	return &InvitationController{invitationService: invitationService}
}

// SendInvitation issues an activation link for a candidate (admin only)
// @Summary Send invitation
// @Description Generates a fresh activation token for the candidate and emails the link. Re-inviting invalidates the previous link.
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body dto.SendInvitationRequest true "Candidate to invite"
// @Success 200 {object} dto.SendInvitationResponse "Invitation issued; emailSent reports delivery"
// @Failure 400 {object} dto.ErrorResponse "Invalid candidate ID"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Candidate already has an account"
// @Router /admin/send-invitation [post]
func (c *InvitationController) SendInvitation(ctx *gin.Context) {
	var req dto.SendInvitationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid candidate ID").WithField("candidateId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	resp, err := c.invitationService.SendInvitation(ctx, candidateID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, resp)
}

// Activate is the advisory token check the activation page performs
// @Summary Check activation token
// @Description Reports whether an activation token is valid, expired or unknown. Never consumes the token.
// @Tags invitations
// @Produce json
// @Param token query string true "Activation token"
// @Success 200 {object} dto.ActivationResponse "Token status with candidate preview when valid"
// @Router /activate [get]
func (c *InvitationController) Activate(ctx *gin.Context) {
	resp := c.invitationService.ValidateToken(ctx, ctx.Query("token"))
	ctx.JSON(http.StatusOK, resp)
}

// CompleteRegistration finalizes an invitation into a student account
// @Summary Complete registration
// @Description Creates the account, the student profile and consumes the token atomically
// @Tags invitations
// @Accept json
// @Produce json
// @Param request body dto.CompleteRegistrationRequest true "Token and chosen password"
// @Success 200 {object} dto.SuccessResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Password too short, token invalid or token expired"
// @Failure 409 {object} dto.ErrorResponse "Email already has an account"
// @Router /auth/complete-registration [post]
func (c *InvitationController) CompleteRegistration(ctx *gin.Context) {
	var req dto.CompleteRegistrationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if _, err := c.invitationService.FinalizeRegistration(ctx, &req); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Registration completed, you can now sign in",
	})
}
