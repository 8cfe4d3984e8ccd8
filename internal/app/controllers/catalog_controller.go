package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mcruz/enrollsys/internal/app/models/dto"
	"github.com/mcruz/enrollsys/internal/app/services"
	"github.com/mcruz/enrollsys/internal/middleware"
)

// CatalogController handles subject and document requirement endpoints
type CatalogController struct {
	catalogService *services.CatalogService
}

// NewCatalogController creates a new CatalogController
func NewCatalogController(catalogService *services.CatalogService) *CatalogController {
	return &CatalogController{catalogService: catalogService}
}

// CreateSubject adds a subject to the catalog
// @Summary Create subject
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.SubjectRequest true "Subject details"
// @Success 201 {object} dto.APIResponse{data=models.Subject} "Subject created"
// @Failure 409 {object} dto.ErrorResponse "Subject code already exists"
// @Router /subjects [post]
func (c *CatalogController) CreateSubject(ctx *gin.Context) {
	var req dto.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	subject, err := c.catalogService.CreateSubject(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: subject, Timestamp: time.Now()})
}

// ListSubjects returns the full catalog
// @Summary List subjects
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=[]models.Subject} "Subjects ordered by code"
// @Router /subjects [get]
func (c *CatalogController) ListSubjects(ctx *gin.Context) {
	subjects, err := c.catalogService.ListSubjects(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subjects, Timestamp: time.Now()})
}

// UpdateSubject edits a catalog entry
// @Summary Update subject
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Subject ID"
// @Param request body dto.SubjectRequest true "New subject details"
// @Success 200 {object} dto.APIResponse{data=models.Subject} "Updated subject"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [put]
func (c *CatalogController) UpdateSubject(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SubjectRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	subject, err := c.catalogService.UpdateSubject(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: subject, Timestamp: time.Now()})
}

// DeleteSubject removes a catalog entry
// @Summary Delete subject
// @Tags catalog
// @Produce json
// @Param id path string true "Subject ID"
// @Success 200 {object} dto.SuccessResponse "Subject deleted"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{id} [delete]
func (c *CatalogController) DeleteSubject(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteSubject(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Subject deleted"})
}

// CreateDocument adds a document requirement
// @Summary Create required document
// @Tags catalog
// @Accept json
// @Produce json
// @Param request body dto.RequiredDocumentRequest true "Document requirement"
// @Success 201 {object} dto.APIResponse{data=models.RequiredDocument} "Requirement created"
// @Failure 400 {object} dto.ErrorResponse "Unknown student type"
// @Router /documents [post]
func (c *CatalogController) CreateDocument(ctx *gin.Context) {
	var req dto.RequiredDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	doc, err := c.catalogService.CreateDocument(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{Data: doc, Timestamp: time.Now()})
}

// ListDocuments groups requirements by student type
// @Summary List required documents
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.RequiredDocumentsByType} "Requirements grouped by student type"
// @Router /documents [get]
func (c *CatalogController) ListDocuments(ctx *gin.Context) {
	docs, err := c.catalogService.ListDocuments(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: docs, Timestamp: time.Now()})
}

// UpdateDocument edits a document requirement
// @Summary Update required document
// @Tags catalog
// @Accept json
// @Produce json
// @Param id path string true "Document ID"
// @Param request body dto.RequiredDocumentRequest true "New requirement details"
// @Success 200 {object} dto.APIResponse{data=models.RequiredDocument} "Updated requirement"
// @Failure 404 {object} dto.ErrorResponse "Requirement not found"
// @Router /documents/{id} [put]
func (c *CatalogController) UpdateDocument(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.RequiredDocumentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindingError(ctx, err)
		return
	}

	doc, err := c.catalogService.UpdateDocument(ctx, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{Data: doc, Timestamp: time.Now()})
}

// DeleteDocument removes a document requirement
// @Summary Delete required document
// @Tags catalog
// @Produce json
// @Param id path string true "Document ID"
// @Success 200 {object} dto.SuccessResponse "Requirement deleted"
// @Failure 404 {object} dto.ErrorResponse "Requirement not found"
// @Router /documents/{id} [delete]
func (c *CatalogController) DeleteDocument(ctx *gin.Context) {
	id, ok := parseUUIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.catalogService.DeleteDocument(ctx, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.SuccessResponse{Success: true, Message: "Required document deleted"})
}
