package handler

import (
	"TrendPulse/internal/pkg/response"
	"TrendPulse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type InsightHandler struct {
	insightSvc service.InsightService
}

func NewInsightHandler(insightSvc service.InsightService) *InsightHandler {
	return &InsightHandler{
		insightSvc: insightSvc,
	}
}

func (s *InsightHandler) ContentIdeas(c *gin.Context) {
	ideas, err := s.insightSvc.ContentIdeas(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"ideas": ideas})
}

func (s *InsightHandler) Predict(c *gin.Context) {
	entityType := c.Param("entity_type")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	prediction, err := s.insightSvc.Predict(c.Request.Context(), entityType, entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"prediction": prediction})
}
