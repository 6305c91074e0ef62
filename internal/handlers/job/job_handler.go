// internal/handlers/job/job_handler.go
package job

import (
	"net/http"

	"mobiwash-service/internal/domain/job"
	"mobiwash-service/internal/pkg/response"
	service "mobiwash-service/internal/service/job"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// ListWorkItems lists the unified work list: materialized jobs plus virtual
// entries for active bookings that have no job row yet
func (h *JobHandler) ListWorkItems(c *gin.Context) {
	var filters job.WorkItemListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	items, err := h.jobService.ListWorkItems(c.Request.Context(), &filters)
	if err != nil {
		response.FromError(c, "failed to list work items", err)
		return
	}

	response.Success(c, http.StatusOK, "work items retrieved", gin.H{
		"items": items,
		"count": len(items),
	})
}

// GetWorkItem retrieves one work item by its API identifier, which is a
// numeric job id or "booking-<id>" for virtual items
func (h *JobHandler) GetWorkItem(c *gin.Context) {
	ref, err := job.ParseRef(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "invalid work item ID", err)
		return
	}

	item, err := h.jobService.GetWorkItem(c.Request.Context(), ref)
	if err != nil {
		response.FromError(c, "work item not found", err)
		return
	}

	response.Success(c, http.StatusOK, "work item retrieved", item)
}

// AutoCreateJobs materializes job rows for every active booking lacking one
func (h *JobHandler) AutoCreateJobs(c *gin.Context) {
	result, err := h.jobService.AutoCreateJobs(c.Request.Context())
	if err != nil {
		response.FromError(c, "failed to create jobs", err)
		return
	}

	response.Success(c, http.StatusOK, "jobs created", result)
}

// AssignTechnician assigns or clears the technician on a work item,
// materializing a job row first when the item is booking-derived
func (h *JobHandler) AssignTechnician(c *gin.Context) {
	ref, err := job.ParseRef(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "invalid work item ID", err)
		return
	}

	var req job.AssignTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.jobService.AssignTechnician(c.Request.Context(), ref, req.TechnicianID)
	if err != nil {
		response.FromError(c, "failed to assign technician", err)
		return
	}

	response.Success(c, http.StatusOK, "technician assigned", result)
}

// UpdateStatus moves a work item through the lifecycle. A virtual item's
// status change lands on its booking without creating a job row.
func (h *JobHandler) UpdateStatus(c *gin.Context) {
	ref, err := job.ParseRef(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "invalid work item ID", err)
		return
	}

	var req job.UpdateJobStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.jobService.UpdateStatus(c.Request.Context(), ref, req.Status)
	if err != nil {
		response.FromError(c, "failed to update job status", err)
		return
	}

	response.Success(c, http.StatusOK, "work item status updated", result)
}

// UpdateJob updates job notes and actual start/end times
func (h *JobHandler) UpdateJob(c *gin.Context) {
	ref, err := job.ParseRef(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "invalid work item ID", err)
		return
	}

	var req job.UpdateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	result, err := h.jobService.UpdateJob(c.Request.Context(), ref, &req)
	if err != nil {
		response.FromError(c, "failed to update job", err)
		return
	}

	response.Success(c, http.StatusOK, "job updated", result)
}

// DeleteWorkItem deletes a standalone job. Booking-derived items are
// rejected; their booking must be deleted instead.
func (h *JobHandler) DeleteWorkItem(c *gin.Context) {
	ref, err := job.ParseRef(c.Param("id"))
	if err != nil {
		response.ValidationError(c, "invalid work item ID", err)
		return
	}

	if err := h.jobService.DeleteWorkItem(c.Request.Context(), ref); err != nil {
		response.FromError(c, "failed to delete work item", err)
		return
	}

	response.Success(c, http.StatusOK, "work item deleted", nil)
}
