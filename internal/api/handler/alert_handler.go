package handler

import (
	"TrendPulse/internal/api/dto"
	"TrendPulse/internal/pkg/response"
	"TrendPulse/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AlertHandler struct {
	alertSvc service.AlertService
}

func NewAlertHandler(alertSvc service.AlertService) *AlertHandler {
	return &AlertHandler{
		alertSvc: alertSvc,
	}
}

func (s *AlertHandler) CreateRule(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var req dto.CreateAlertDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	rule, err := s.alertSvc.CreateRule(c.Request.Context(), userID,
		req.EntityType, req.EntityID, req.Threshold, req.Condition, req.CooldownSeconds)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rule)
}

func (s *AlertHandler) ListRules(c *gin.Context) {
	userID := c.GetUint64("user_id")

	rules, err := s.alertSvc.ListRules(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rules)
}

func (s *AlertHandler) ToggleRule(c *gin.Context) {
	userID := c.GetUint64("user_id")
	ruleID, err := strconv.ParseUint(c.Param("rule_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.ToggleAlertDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.alertSvc.ToggleRule(c.Request.Context(), userID, ruleID, *req.IsActive); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *AlertHandler) UpdateRule(c *gin.Context) {
	userID := c.GetUint64("user_id")
	ruleID, err := strconv.ParseUint(c.Param("rule_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.UpdateAlertDTO
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	if err := s.alertSvc.UpdateRule(c.Request.Context(), userID, ruleID, req.Threshold, req.CooldownSeconds); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
