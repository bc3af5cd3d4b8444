package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/waltherrera/Social-Media-Database/analysis"
	"github.com/waltherrera/Social-Media-Database/logutils"
	"github.com/waltherrera/Social-Media-Database/metrics"
	"github.com/waltherrera/Social-Media-Database/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc     *analysis.Service
	metrics *metrics.Metrics
}

func NewHandler(svc *analysis.Service, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, metrics: m}
}

// Register mounts every route on the group.
func (h *Handler) Register(api *gin.RouterGroup) {
	h.RegisterProject(api)
	h.RegisterPost(api)
	h.RegisterReport(api)
}

// handleError maps analysis errors onto the response envelope.
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, analysis.ErrValidation):
		response.Error(c, err.Error(), response.InvalidRequest)
	case errors.Is(err, analysis.ErrNotFound):
		response.Error(c, err.Error(), response.NotFound)
	case errors.Is(err, analysis.ErrConflict):
		response.Error(c, err.Error(), response.Conflict)
	default:
		logutils.Log.WithField("request_id", c.GetString(requestIDKey)).WithError(err).Error("request failed")
		_ = c.Error(err)
		response.Error(c, err.Error(), response.StorageFailure)
	}
}

func parseID(raw, name string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 0)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// parseIDList reads a comma-separated id list. An empty string is an empty
// list, not an absent one.
func parseIDList(raw, name string) ([]uint, error) {
	ids := []uint{}
	for _, part := range strings.Split(raw, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		id, err := parseID(part, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pathID(c *gin.Context) (uint, bool) {
	id, err := parseID(c.Param("id"), "id")
	if err != nil {
		response.BadRequestError(c, err.Error())
		return 0, false
	}
	return id, true
}
