package dto

// Response represents a standard API response
type Response struct {
	Success     bool        `json:"success"`
	Data        interface{} `json:"data,omitempty"`
	Error       *ErrorInfo  `json:"error,omitempty"`
	Meta        *Meta       `json:"meta,omitempty"`
	MailWarning string      `json:"mail_warning,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Success: true,
		Data:    data,
	}
}

// NewSuccessResponseWithWarning creates a success response carrying a mail
// warning. Mail failures never fail a request; they surface here instead.
func NewSuccessResponseWithWarning(data interface{}, mailWarning string) Response {
	return Response{
		Success:     true,
		Data:        data,
		MailWarning: mailWarning,
	}
}

// NewSuccessResponseWithMeta creates a success response with pagination meta
func NewSuccessResponseWithMeta(data interface{}, total int64, page, pageSize int) Response {
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return Response{
		Success: true,
		Data:    data,
		Meta: &Meta{
			Total:      total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message string) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	}
}
