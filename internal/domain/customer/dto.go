package customer

type CreateCustomerRequest struct {
	FullName string `json:"full_name" binding:"required,max=255"`
	Phone    string `json:"phone" binding:"required,max=20"`
	Email    string `json:"email" binding:"omitempty,email,max=255"`
	Location string `json:"location" binding:"max=500"`
	Notes    string `json:"notes"`
}

type UpdateCustomerRequest struct {
	FullName *string `json:"full_name" binding:"omitempty,max=255"`
	Phone    *string `json:"phone" binding:"omitempty,max=20"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Location *string `json:"location" binding:"omitempty,max=500"`
	Notes    *string `json:"notes"`
}

type CustomerListFilters struct {
	Search   string `form:"search"` // matches name, phone, email
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

type CustomerListResponse struct {
	Customers  []CustomerWithStats `json:"customers"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	TotalPages int                 `json:"total_pages"`
}
