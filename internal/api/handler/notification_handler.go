package handler

import (
	"TrendPulse/internal/api/dto"
	"TrendPulse/internal/pkg/response"
	"TrendPulse/internal/service"
	"time"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifSvc service.NotificationService
}

func NewNotificationHandler(notifSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notifSvc: notifSvc,
	}
}

func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	userID := c.GetUint64("user_id")

	var listDTO dto.NotificationListDTO
	if err := c.ShouldBindQuery(&listDTO); err != nil {
		response.Error(c, err)
		return
	}

	var before time.Time
	if listDTO.Before != "" {
		parsed, err := time.Parse(time.RFC3339, listDTO.Before)
		if err != nil {
			response.Error(c, service.ErrParamInvalid)
			return
		}
		before = parsed
	}

	notifications, err := s.notifSvc.List(c.Request.Context(), userID, before, listDTO.PageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, notifications)
}

func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("user_id")

	count, err := s.notifSvc.CountUnread(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"unread": count})
}

func (s *NotificationHandler) MarkRead(c *gin.Context) {
	userID := c.GetUint64("user_id")
	notificationID := c.Param("notification_id")
	if notificationID == "" {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err := s.notifSvc.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID := c.GetUint64("user_id")

	if err := s.notifSvc.MarkAllRead(c.Request.Context(), userID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
