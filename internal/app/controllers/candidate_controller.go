package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/middleware"
	"github.com/mcruz/enrollsys/internal/pkg/helpers"
)

// maxImportSize caps candidate CSV uploads at 5 MiB
const maxImportSize = 5 << 20

// CandidateController handles candidate record endpoints
type CandidateController struct {
	candidateService *services.CandidateService
}

// NewCandidateController creates a new CandidateController
func NewCandidateController(candidateService *services.CandidateService) *CandidateController {
	return &CandidateController{candidateService: candidateService}
}

// Create registers a candidate
// @Summary Create candidate
// @Description Adds a candidate record in pending status
// @Tags candidates
// @Accept json
// @Produce json
// @Param request body dto.CreateCandidateRequest true "Candidate details"
// @Success 201 {object} dto.APIResponse{data=models.Candidate} "Candidate created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Application number already exists"
// @Router /candidates [post]
func (c *CandidateController) Create(ctx *gin.Context) {
	var req dto.CreateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	candidate, err := c.candidateService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: candidate, Timestamp: time.Now()})
}

// List returns a filtered candidate page
// @Summary List candidates
// @Description Lists candidates filtered by status and search text, newest first
// @Tags candidates
// @Produce json
// @Param status query string false "pending | approved | rejected | invited | not_sent"
// @Param search query string false "Matches name, email or application number"
// @Param page query int false "1-based page"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Candidate page"
// @Router /candidates [get]
func (c *CandidateController) List(ctx *gin.Context) {
	var filter dto.CandidateListFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		bindingError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	offset, limit := helpers.CalculateOffsetLimit(page, size)

	candidates, total, err := c.candidateService.List(ctx, filter, offset, limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.PagedResponse{
			Items:      candidates,
			Pagination: helpers.NewPaginationInfo(total, page, size),
		},
		Timestamp: time.Now(),
	})
}

// Get retrieves a single candidate
// @Summary Get candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} dto.APIResponse{data=models.Candidate} "Candidate"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /candidates/{id} [get]
func (c *CandidateController) Get(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	candidate, err := c.candidateService.GetByID(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: candidate, Timestamp: time.Now()})
}

// Update edits a candidate's identity fields
// @Summary Update candidate
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param request body dto.UpdateCandidateRequest true "New candidate details"
// @Success 200 {object} dto.APIResponse{data=models.Candidate} "Updated candidate"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Failure 409 {object} dto.ErrorResponse "Application number already exists"
// @Router /candidates/{id} [put]
func (c *CandidateController) Update(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCandidateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	candidate, err := c.candidateService.Update(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: candidate, Timestamp: time.Now()})
}

// UpdateStatus changes a candidate's review status
// @Summary Update candidate status
// @Description Sets the review status. Rejecting also revokes any outstanding activation token.
// @Tags candidates
// @Accept json
// @Produce json
// @Param id path string true "Candidate ID"
// @Param request body dto.UpdateCandidateStatusRequest true "New status"
// @Success 200 {object} dto.SuccessResponse "Status updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /candidates/{id}/status [patch]
func (c *CandidateController) UpdateStatus(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateCandidateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	if err := c.candidateService.UpdateStatus(ctx, id, req.Status); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Status updated"})
}

// Delete removes a candidate
// @Summary Delete candidate
// @Tags candidates
// @Produce json
// @Param id path string true "Candidate ID"
// @Success 200 {object} dto.SuccessResponse "Candidate deleted"
// @Failure 404 {object} dto.ErrorResponse "Candidate not found"
// @Router /candidates/{id} [delete]
func (c *CandidateController) Delete(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.candidateService.Delete(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Candidate deleted"})
}

// Import bulk-loads candidates from an uploaded CSV
// @Summary Import candidates
// @Description Parses an uploaded CSV and inserts candidates in pending status. Duplicate application numbers are skipped.
// @Tags candidates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV file"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult} "Import summary"
// @Failure 400 {object} dto.ErrorResponse "Missing file or unusable CSV"
// @Router /candidates/import [post]
func (c *CandidateController) Import(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A CSV file upload is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if fileHeader.Size > maxImportSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "File exceeds the 5 MiB import limit").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	result, err := c.candidateService.ImportCSV(ctx, file)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: result, Timestamp: time.Now()})
}

// Stats summarizes the candidate table
// @Summary Candidate stats
// @Tags candidates
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CandidateStats} "Candidate counters"
// @Router /candidates/stats [get]
func (c *CandidateController) Stats(ctx *gin.Context) {
	stats, err := c.candidateService.Stats(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: stats, Timestamp: time.Now()})
}
