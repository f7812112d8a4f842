package controller

import (
	"net/http"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/identity"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/service"
	"github.com/gin-gonic/gin"
)

type AnalogyController struct {
	analogySvc service.AnalogyService
	imageSvc   service.ImageService
}

func NewAnalogyController(analogySvc service.AnalogyService, imageSvc service.ImageService) *AnalogyController {
	return &AnalogyController{analogySvc: analogySvc, imageSvc: imageSvc}
}

// Generate godoc
// @Summary Generate an analogy set
// @Description Creates an AnalogySet, calls the external generator, and persists the result.
// @Tags analogies
// @Accept json
// @Produce json
// @Param body body dto.GenerateAnalogiesRequest true "Concept and notes"
// @Success 201 {object} dto.GenerateAnalogiesResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/generate-analogies [post]
func (ctrl *AnalogyController) Generate(c *gin.Context) {
	id, err := identity.RequireRole(c, model.RoleLecturer)
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.GenerateAnalogiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	resp, err := ctrl.analogySvc.Generate(c.Request.Context(), req, id.Role)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get dispatches on the caller's role: lecturers get the full record,
// students only the approved-and-enrolled view with feedback stripped.
//
// Get godoc
// @Summary Fetch one analogy set
// @Tags analogies
// @Produce json
// @Param id path int true "AnalogySet ID"
// @Success 200 {object} dto.AnalogySetDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/analogies/{id} [get]
func (ctrl *AnalogyController) Get(c *gin.Context) {
	setID, ok := parseID(c, "id")
	if !ok {
		return
	}
	caller := identity.FromContext(c)
	switch {
	case caller.IsLecturer() || caller.IsAdmin():
		resp, err := ctrl.analogySvc.GetForLecturer(setID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case caller.IsStudent():
		resp, err := ctrl.analogySvc.GetForStudent(setID, caller.User.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	default:
		respondError(c, apperr.NotFound("not found"))
	}
}

// List godoc
// @Summary List analogy sets
// @Description Lecturers get all sets; students get approved sets for an enrolled module (?module=CODE).
// @Tags analogies
// @Produce json
// @Param module query string false "Module code (student listing)"
// @Success 200 {array} dto.AnalogySetDTO
// @Router /api/analogies [get]
func (ctrl *AnalogyController) List(c *gin.Context) {
	caller := identity.FromContext(c)
	switch {
	case caller.IsLecturer() || caller.IsAdmin():
		resp, err := ctrl.analogySvc.ListForLecturer()
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case caller.IsStudent():
		moduleCode := c.Query("module")
		if moduleCode == "" {
			respondError(c, apperr.Validation("module query parameter is required"))
			return
		}
		resp, err := ctrl.analogySvc.ListApprovedForStudent(moduleCode, caller.User.ID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	default:
		respondError(c, apperr.NotFound("not found"))
	}
}

// Approve godoc
// @Summary Approve an analogy set for student visibility
// @Tags analogies
// @Produce json
// @Param id path int true "AnalogySet ID"
// @Success 200 {object} dto.AnalogySetDTO
// @Router /api/analogies/{id}/approve [post]
func (ctrl *AnalogyController) Approve(c *gin.Context) {
	ctrl.reviewAction(c, ctrl.analogySvc.Approve)
}

// RequestChanges godoc
// @Summary Send an analogy set back for changes
// @Tags analogies
// @Produce json
// @Param id path int true "AnalogySet ID"
// @Success 200 {object} dto.AnalogySetDTO
// @Router /api/analogies/{id}/request-changes [post]
func (ctrl *AnalogyController) RequestChanges(c *gin.Context) {
	ctrl.reviewAction(c, ctrl.analogySvc.RequestChanges)
}

func (ctrl *AnalogyController) reviewAction(c *gin.Context, action func(uint) (*dto.AnalogySetDTO, error)) {
	if _, err := identity.RequireRole(c, model.RoleLecturer); err != nil {
		respondError(c, err)
		return
	}
	setID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := action(setID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateFeedback godoc
// @Summary Update lecturer feedback on topic entries
// @Tags analogies
// @Accept json
// @Produce json
// @Param id path int true "AnalogySet ID"
// @Param body body dto.UpdateFeedbackRequest true "Feedback entries"
// @Success 200 {object} dto.AnalogySetDTO
// @Router /api/analogies/{id}/feedback [post]
func (ctrl *AnalogyController) UpdateFeedback(c *gin.Context) {
	if _, err := identity.RequireRole(c, model.RoleLecturer); err != nil {
		respondError(c, err)
		return
	}
	setID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	resp, err := ctrl.analogySvc.UpdateFeedback(setID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Regenerate godoc
// @Summary Regenerate analogy content for an existing set
// @Description Replaces topic content in place. Review status is not reset.
// @Tags analogies
// @Produce json
// @Param id path int true "AnalogySet ID"
// @Success 200 {object} dto.AnalogySetDTO
// @Router /api/analogies/{id}/regenerate [post]
func (ctrl *AnalogyController) Regenerate(c *gin.Context) {
	if _, err := identity.RequireRole(c, model.RoleLecturer); err != nil {
		respondError(c, err)
		return
	}
	setID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.analogySvc.Regenerate(c.Request.Context(), setID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RecordInteraction godoc
// @Summary Record a student VIEW or LIKE on a visible analogy set
// @Tags analogies
// @Accept json
// @Produce json
// @Param id path int true "AnalogySet ID"
// @Param body body dto.InteractionRequest true "Interaction kind"
// @Success 200 {object} dto.OkResponse
// @Router /api/analogies/{id}/interactions [post]
func (ctrl *AnalogyController) RecordInteraction(c *gin.Context) {
	caller, err := identity.RequireRole(c, model.RoleStudent)
	if err != nil {
		respondError(c, err)
		return
	}
	setID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	if err := ctrl.analogySvc.RecordInteraction(setID, caller.User.ID, req.Kind); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OkResponse{Ok: true})
}

// GenerateImage godoc
// @Summary Generate an illustrative image for an analogy
// @Tags analogies
// @Accept json
// @Produce json
// @Param body body dto.GenerateImageRequest true "Analogy text"
// @Success 200 {object} dto.GenerateImageResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/generate-image [post]
func (ctrl *AnalogyController) GenerateImage(c *gin.Context) {
	if _, err := identity.RequireRole(c, model.RoleLecturer); err != nil {
		respondError(c, err)
		return
	}
	var req dto.GenerateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	dataURL, err := ctrl.imageSvc.GenerateImage(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.GenerateImageResponse{DataURL: dataURL})
}
