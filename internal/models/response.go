package models

// APIResponse is the uniform JSON envelope returned by every endpoint.
type APIResponse struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       interface{} `json:"data,omitempty"`
	Errors     []string    `json:"errors,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes the page window of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page count for a list result.
func NewPagination(page, limit, total int) *Pagination {
	pages := total / limit
	if total%limit != 0 {
		pages++
	}
	return &Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}

// OK wraps data in a successful envelope.
func OK(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// OKMessage wraps a message-only success envelope.
func OKMessage(message string) APIResponse {
	return APIResponse{Success: true, Message: message}
}

// Fail wraps an error message in a failure envelope.
func Fail(message string, errs ...string) APIResponse {
	return APIResponse{Success: false, Message: message, Errors: errs}
}
