package service

import (
	"encoding/json"

	"github.com/waltherrera/Social-Media-Database/analysis"
	"github.com/waltherrera/Social-Media-Database/response"

	"github.com/gin-gonic/gin"
)

type CreateProjectReq struct {
	Name             string  `json:"name"`
	ManagerFirstName *string `json:"manager_first_name"`
	ManagerLastName  *string `json:"manager_last_name"`
	Institute        string  `json:"institute"`
	StartDate        string  `json:"start_date"`
	EndDate          string  `json:"end_date"`
	Posts            []uint  `json:"posts"`
}

type AssignPostReq struct {
	PostID uint `json:"post_id"`
}

type AddFieldReq struct {
	FieldName string `json:"field_name"`
}

type EnterResultsReq struct {
	PostID  uint           `json:"post_id"`
	Results map[string]any `json:"results"`
}

func (h *Handler) CreateProject(c *gin.Context) {
	var req CreateProjectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	out, err := h.svc.CreateProject(c.Request.Context(), analysis.NewProject{
		Name:             req.Name,
		ManagerFirstName: req.ManagerFirstName,
		ManagerLastName:  req.ManagerLastName,
		Institute:        req.Institute,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		PostIDs:          req.Posts,
	})
	if err != nil {
		handleError(c, err)
		return
	}
	response.Created(c, "Project added", out)
}

func (h *Handler) ListProjects(c *gin.Context) {
	projects, err := h.svc.ListProjects(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"projects": projects})
}

func (h *Handler) AssignPost(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	var req AssignPostReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	linkID, created, err := h.svc.EnsureLink(c.Request.Context(), projectID, req.PostID)
	if err != nil {
		handleError(c, err)
		return
	}
	if created {
		h.metrics.LinksCreated.Inc()
	}
	msg := "Post assigned"
	if !created {
		msg = "Post already assigned"
	}
	response.Accepted(c, created, msg, gin.H{"link_id": linkID})
}

func (h *Handler) AddField(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	var req AddFieldReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	fieldID, created, err := h.svc.ResolveField(c.Request.Context(), projectID, req.FieldName)
	if err != nil {
		handleError(c, err)
		return
	}
	if created {
		h.metrics.FieldsCreated.Inc()
	}
	msg := "Field added"
	if !created {
		msg = "Field already exists"
	}
	response.Accepted(c, created, msg, gin.H{"field_id": fieldID})
}

func (h *Handler) EnterResults(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	// numbers stay json.Number so large integers keep every digit
	var req EnterResultsReq
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		response.BadRequestError(c, err.Error())
		return
	}
	out, err := h.svc.RecordResults(c.Request.Context(), projectID, req.PostID, req.Results)
	if err != nil {
		handleError(c, err)
		return
	}
	h.metrics.RecordWrite(out.LinkCreated, len(out.FieldsCreated), out.ValuesCreated, out.ValuesUpdated)
	response.Accepted(c, out.Created(), "Results saved", out)
}

func (h *Handler) FieldCompletion(c *gin.Context) {
	projectID, ok := pathID(c)
	if !ok {
		return
	}
	var postIDs []uint
	if raw, present := c.GetQuery("post_ids"); present {
		ids, err := parseIDList(raw, "post_ids")
		if err != nil {
			response.BadRequestError(c, err.Error())
			return
		}
		postIDs = ids
	}
	completion, err := h.svc.FieldCompletion(c.Request.Context(), projectID, postIDs)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, gin.H{"field_completion": completion})
}

func (h *Handler) RegisterProject(api *gin.RouterGroup) {
	api.POST("/projects", h.CreateProject)
	api.GET("/projects", h.ListProjects)
	api.POST("/projects/:id/posts", h.AssignPost)
	api.POST("/projects/:id/fields", h.AddField)
	api.POST("/projects/:id/results", h.EnterResults)
	api.GET("/projects/:id/completion", h.FieldCompletion)
}
