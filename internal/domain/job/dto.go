package job

import "mobiwash-service/internal/domain/status"

type WorkItemListFilters struct {
	Status string `form:"status"`
	Search string `form:"search"` // reference, customer name, technician name
}

type AssignTechnicianRequest struct {
	// TechnicianID 0 clears the assignment.
	TechnicianID int64 `json:"technician_id"`
}

type UpdateJobStatusRequest struct {
	Status status.Status `json:"status" binding:"required"`
}

type UpdateJobRequest struct {
	Notes     *string `json:"notes"`
	StartTime *string `json:"start_time"`
	EndTime   *string `json:"end_time"`
}

type AutoCreateResult struct {
	Created int64 `json:"created"`
}
