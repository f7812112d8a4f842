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

type ModuleController struct {
	moduleSvc service.ModuleService
}

func NewModuleController(moduleSvc service.ModuleService) *ModuleController {
	return &ModuleController{moduleSvc: moduleSvc}
}

// Create godoc
// @Summary Create a course module
// @Tags modules
// @Accept json
// @Produce json
// @Param body body dto.ModuleCreateDTO true "Module"
// @Success 201 {object} dto.ModuleDTO
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/modules/create [post]
func (ctrl *ModuleController) Create(c *gin.Context) {
	caller := identity.FromContext(c)
	if !caller.IsLecturer() && !caller.IsAdmin() {
		respondError(c, apperr.NotFound("not found"))
		return
	}
	var req dto.ModuleCreateDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperr.Validation(err.Error()))
		return
	}
	resp, err := ctrl.moduleSvc.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary List course modules
// @Tags modules
// @Produce json
// @Success 200 {array} dto.ModuleDTO
// @Router /api/modules [get]
func (ctrl *ModuleController) List(c *gin.Context) {
	if identity.FromContext(c) == nil {
		respondError(c, apperr.NotFound("not found"))
		return
	}
	resp, err := ctrl.moduleSvc.List()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Enroll godoc
// @Summary Enroll the calling student in a module
// @Tags modules
// @Produce json
// @Param code path string true "Module code"
// @Success 201 {object} dto.EnrollmentDTO
// @Failure 409 {object} dto.ErrorResponse
// @Router /api/modules/{code}/enroll [post]
func (ctrl *ModuleController) Enroll(c *gin.Context) {
	caller, err := identity.RequireRole(c, model.RoleStudent)
	if err != nil {
		respondError(c, err)
		return
	}
	resp, err := ctrl.moduleSvc.Enroll(c.Param("code"), caller.User.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
