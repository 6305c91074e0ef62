package technician

type CreateTechnicianRequest struct {
	FullName string   `json:"full_name" binding:"required,max=255"`
	Email    string   `json:"email" binding:"omitempty,email,max=255"`
	Phone    string   `json:"phone" binding:"max=20"`
	Skills   []string `json:"skills"`
}

type UpdateTechnicianRequest struct {
	FullName *string  `json:"full_name" binding:"omitempty,max=255"`
	Email    *string  `json:"email" binding:"omitempty,email,max=255"`
	Phone    *string  `json:"phone" binding:"omitempty,max=20"`
	Active   *bool    `json:"active"`
	Skills   []string `json:"skills"`
}
