package dto

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type OkResponse struct {
	Ok bool `json:"ok"`
}
