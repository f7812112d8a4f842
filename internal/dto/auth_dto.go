package dto

// DemoRoleRequest sets the demo role cookie. An empty role clears it.
type DemoRoleRequest struct {
	Role string `json:"role" binding:"omitempty,oneof=ADMIN LECTURER STUDENT"`
}

type DemoRoleResponse struct {
	Ok   bool   `json:"ok"`
	Role string `json:"role"`
}

type StudentSessionRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type StudentSessionResponse struct {
	Ok    bool   `json:"ok"`
	Email string `json:"email"`
}
