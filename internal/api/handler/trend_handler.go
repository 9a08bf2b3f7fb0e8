package handler

import (
	"TrendPulse/internal/api/dto"
	"TrendPulse/internal/pkg/kafka"
	"TrendPulse/internal/pkg/response"
	"TrendPulse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type TrendHandler struct {
	trendSvc        service.TrendService
	refreshProducer *kafka.RefreshProducer
}

func NewTrendHandler(trendSvc service.TrendService, refreshProducer *kafka.RefreshProducer) *TrendHandler {
	return &TrendHandler{
		trendSvc:        trendSvc,
		refreshProducer: refreshProducer,
	}
}

func (s *TrendHandler) Top(c *gin.Context) {
	entityType := c.Param("entity_type")

	var listDTO dto.TrendListDTO
	if err := c.ShouldBindQuery(&listDTO); err != nil {
		response.Error(c, err)
		return
	}

	entries, err := s.trendSvc.Top(c.Request.Context(), entityType, listDTO.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}

func (s *TrendHandler) Chart(c *gin.Context) {
	entityType := c.Param("entity_type")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var chartDTO dto.ChartQueryDTO
	if err := c.ShouldBindQuery(&chartDTO); err != nil {
		response.Error(c, err)
		return
	}

	points, err := s.trendSvc.Chart(c.Request.Context(), entityType, entityID, chartDTO.Window)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, points)
}

func (s *TrendHandler) Lifecycle(c *gin.Context) {
	entityType := c.Param("entity_type")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	lifecycle, err := s.trendSvc.Lifecycle(c.Request.Context(), entityType, entityID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, lifecycle)
}

func (s *TrendHandler) Stats(c *gin.Context) {
	stats, err := s.trendSvc.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

func (s *TrendHandler) Search(c *gin.Context) {
	var searchDTO dto.SearchDTO
	if err := c.ShouldBindQuery(&searchDTO); err != nil {
		response.Error(c, err)
		return
	}

	hits, err := s.trendSvc.Search(c.Request.Context(), searchDTO.Keyword, searchDTO.EntityType, searchDTO.Size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, hits)
}

// Refresh 把单实体刷新请求写入队列，由消费端异步采集
func (s *TrendHandler) Refresh(c *gin.Context) {
	entityType := c.Param("entity_type")
	entityID, err := strconv.ParseUint(c.Param("entity_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.refreshProducer.Enqueue(c.Request.Context(), entityType, entityID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
