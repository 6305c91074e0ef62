package catalog

type CreateServiceRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
	Price       int64  `json:"price" binding:"required,min=0"`
	Active      *bool  `json:"active"`
}

type UpdateServiceRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Price       *int64  `json:"price" binding:"omitempty,min=0"`
	Active      *bool   `json:"active"`
}

type ServiceListFilters struct {
	ActiveOnly bool   `form:"active_only"`
	Search     string `form:"search"`
}
