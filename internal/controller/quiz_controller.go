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

type QuizController struct {
	quizSvc    service.QuizService
	attemptSvc service.AttemptService
}

func NewQuizController(quizSvc service.QuizService, attemptSvc service.AttemptService) *QuizController {
	return &QuizController{quizSvc: quizSvc, attemptSvc: attemptSvc}
}

// Create godoc
// @Summary Create a quiz with nested questions and options
// @Tags quizzes
// @Accept json
// @Produce json
// @Param body body dto.QuizCreateDTO true "Quiz definition"
// @Success 201 {object} dto.QuizCreateResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/quizzes [post]
func (ctrl *QuizController) Create(c *gin.Context) {
	caller, err := identity.RequireRole(c, model.RoleLecturer)
	if err != nil {
		respondError(c, err)
		return
	}
	var req dto.QuizCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	resp, err := ctrl.quizSvc.Create(req, caller.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Get godoc
// @Summary Fetch one quiz
// @Description Lecturers see correct answers; students get a redacted view of published quizzes in enrolled modules.
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/quizzes/{id} [get]
func (ctrl *QuizController) Get(c *gin.Context) {
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	caller := identity.FromContext(c)
	switch {
	case caller.IsLecturer() || caller.IsAdmin():
		resp, err := ctrl.quizSvc.GetForLecturer(quizID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	case caller.IsStudent():
		resp, err := ctrl.quizSvc.GetForStudent(quizID, caller.User.ID)
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
// @Summary List quizzes for a module
// @Tags quizzes
// @Produce json
// @Param module query string true "Module code"
// @Success 200 {array} dto.QuizSummaryDTO
// @Router /api/quizzes [get]
func (ctrl *QuizController) List(c *gin.Context) {
	if identity.FromContext(c) == nil {
		respondError(c, apperr.NotFound("not found"))
		return
	}
	moduleCode := c.Query("module")
	if moduleCode == "" {
		respondError(c, apperr.Validation("module query parameter is required"))
		return
	}
	resp, err := ctrl.quizSvc.ListByModule(moduleCode)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Publish godoc
// @Summary Publish a draft quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDTO
// @Router /api/quizzes/{id}/publish [post]
func (ctrl *QuizController) Publish(c *gin.Context) {
	ctrl.ownerAction(c, ctrl.quizSvc.Publish)
}

// Archive godoc
// @Summary Archive a published quiz
// @Tags quizzes
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDTO
// @Router /api/quizzes/{id}/archive [post]
func (ctrl *QuizController) Archive(c *gin.Context) {
	ctrl.ownerAction(c, ctrl.quizSvc.Archive)
}

func (ctrl *QuizController) ownerAction(c *gin.Context, action func(id, ownerID uint) (*dto.QuizDTO, error)) {
	caller, err := identity.RequireRole(c, model.RoleLecturer)
	if err != nil {
		respondError(c, err)
		return
	}
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := action(quizID, caller.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitAttempt godoc
// @Summary Submit a graded attempt for a published quiz
// @Tags attempts
// @Accept json
// @Produce json
// @Param id path int true "Quiz ID"
// @Param body body dto.AttemptSubmitDTO true "Responses keyed by question id"
// @Success 201 {object} dto.AttemptResultDTO
// @Failure 404 {object} dto.ErrorResponse
// @Router /api/quizzes/{id}/attempts [post]
func (ctrl *QuizController) SubmitAttempt(c *gin.Context) {
	caller, err := identity.RequireRole(c, model.RoleStudent)
	if err != nil {
		respondError(c, err)
		return
	}
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AttemptSubmitDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	resp, err := ctrl.attemptSvc.Submit(quizID, caller.User.ID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// MyAttempts godoc
// @Summary List the caller's attempts for a quiz
// @Tags attempts
// @Produce json
// @Param id path int true "Quiz ID"
// @Success 200 {array} dto.AttemptSummaryDTO
// @Router /api/quizzes/{id}/my-attempts [get]
func (ctrl *QuizController) MyAttempts(c *gin.Context) {
	caller, err := identity.RequireRole(c, model.RoleStudent)
	if err != nil {
		respondError(c, err)
		return
	}
	quizID, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := ctrl.attemptSvc.MyAttempts(quizID, caller.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
