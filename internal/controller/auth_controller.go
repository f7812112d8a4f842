package controller

import (
	"net/http"
	"strings"

	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/identity"
	"github.com/gin-gonic/gin"
)

const cookieMaxAge = 7 * 24 * 60 * 60

// AuthController manages the demo identity cookies. This is a demo-only
// role-switch mechanism, not real authentication.
type AuthController struct{}

func NewAuthController() *AuthController { return &AuthController{} }

// SetDemoRole godoc
// @Summary Set the demo role cookie
// @Description Sets the acting role for subsequent requests. An empty role clears it.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.DemoRoleRequest true "Role"
// @Success 200 {object} dto.DemoRoleResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/demo-role [post]
func (ctrl *AuthController) SetDemoRole(c *gin.Context) {
	var req dto.DemoRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if role == "" {
		c.SetCookie(identity.RoleCookie, "", -1, "/", "", false, true)
	} else {
		c.SetCookie(identity.RoleCookie, role, cookieMaxAge, "/", "", false, true)
	}
	c.JSON(http.StatusOK, dto.DemoRoleResponse{Ok: true, Role: role})
}

// SetStudentSession godoc
// @Summary Set the demo student identity cookie
// @Tags auth
// @Accept json
// @Produce json
// @Param body body dto.StudentSessionRequest true "Student email"
// @Success 200 {object} dto.StudentSessionResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/student-session [post]
func (ctrl *AuthController) SetStudentSession(c *gin.Context) {
	var req dto.StudentSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))
	c.SetCookie(identity.StudentCookie, email, cookieMaxAge, "/", "", false, true)
	c.JSON(http.StatusOK, dto.StudentSessionResponse{Ok: true, Email: email})
}
