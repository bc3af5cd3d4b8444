package service

import (
	"strings"

	"github.com/waltherrera/Social-Media-Database/analysis"
	"github.com/waltherrera/Social-Media-Database/response"

	"github.com/gin-gonic/gin"
)

// ProjectReport answers ?project_id= or ?project_name=; the id wins when both
// are given.
func (h *Handler) ProjectReport(c *gin.Context) {
	var ref analysis.ProjectRef
	if raw := strings.TrimSpace(c.Query("project_id")); raw != "" {
		id, err := parseID(raw, "project_id")
		if err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
		ref.ID = id
	}
	ref.Name = c.Query("project_name")
	report, err := h.svc.ProjectReport(c.Request.Context(), ref)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, report)
}

func (h *Handler) SearchReport(c *gin.Context) {
	buckets, err := h.svc.FilteredReport(c.Request.Context(), analysis.PostFilter{
		SocialMedia: c.Query("social_media"),
		Username:    c.Query("username"),
		FirstName:   c.Query("first_name"),
		LastName:    c.Query("last_name"),
		From:        c.Query("from_time"),
		To:          c.Query("to_time"),
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"experiments": buckets})
}

func (h *Handler) RegisterReport(api *gin.RouterGroup) {
	api.GET("/reports/project", h.ProjectReport)
	api.GET("/reports/search", h.SearchReport)
}
