package service

import (
	"TrendPulse/internal/model"
	"TrendPulse/internal/pkg/consts"
	"TrendPulse/internal/pkg/mail"
	"TrendPulse/internal/pkg/mongo"
	"TrendPulse/internal/pkg/redis"
	"TrendPulse/internal/pkg/util"
	"TrendPulse/internal/repository"
	"context"
	"fmt"
	log "log/slog"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

type NotificationService interface {
	// Dispatch 将一条告警事件送达所有启用的渠道。
	// 站内通知落库失败视为整体失败，邮件 / webhook 只记录告警。
	Dispatch(ctx context.Context, ev *TriggerEvent) error
	List(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*mongo.Notification, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
	MarkRead(ctx context.Context, userID uint64, id string) error
	MarkAllRead(ctx context.Context, userID uint64) error
	// SendDailyDigest 向开启摘要的用户发送每日热榜
	SendDailyDigest(ctx context.Context) error
}

type notificationServiceImpl struct {
	notifRepo   mongo.NotificationRepo
	userRepo    repository.UserRepo
	hashtagRepo repository.HashtagRepo
	soundRepo   repository.SoundRepo
	creatorRepo repository.CreatorRepo
	webhook     *resty.Client
}

func NewNotificationService(
	notifRepo mongo.NotificationRepo,
	userRepo repository.UserRepo,
	hashtagRepo repository.HashtagRepo,
	soundRepo repository.SoundRepo,
	creatorRepo repository.CreatorRepo,
) NotificationService {
	webhook := resty.New().
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	webhook.JSONMarshal = json.Marshal
	webhook.JSONUnmarshal = json.Unmarshal

	return &notificationServiceImpl{
		notifRepo:   notifRepo,
		userRepo:    userRepo,
		hashtagRepo: hashtagRepo,
		soundRepo:   soundRepo,
		creatorRepo: creatorRepo,
		webhook:     webhook,
	}
}

func (s *notificationServiceImpl) Dispatch(ctx context.Context, ev *TriggerEvent) error {
	user, err := s.userRepo.GetByID(ctx, ev.UserID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	title := fmt.Sprintf("🔥 %s 触发告警", ev.EntityName)
	message := fmt.Sprintf("%s 的增长率达到 %.1f%%，超过你设置的阈值 %.1f%%",
		ev.EntityName, ev.Value, ev.Threshold)

	notification := &mongo.Notification{
		UserID:  ev.UserID,
		RuleID:  ev.RuleID,
		Type:    consts.NotificationTypeTrendAlert,
		Title:   title,
		Message: message,
		Data: map[string]any{
			"entityType": ev.EntityType,
			"entityId":   ev.EntityID,
			"metric":     ev.Metric,
			"value":      ev.Value,
			"threshold":  ev.Threshold,
		},
		CreatedAt: ev.TriggeredAt,
	}
	if err := s.notifRepo.SaveNotification(ctx, notification); err != nil {
		return fmt.Errorf("save notification: %w", err)
	}

	s.publishLive(ctx, ev.UserID, notification)

	pref, err := s.userRepo.GetPreference(ctx, ev.UserID)
	if err != nil {
		log.WarnContext(ctx, "get user preference failed", "user_id", ev.UserID, "err", err)
		return nil
	}
	if pref == nil {
		return nil
	}

	if pref.EmailNotifications && user.Email != "" {
		html := mail.BuildAlertHTML(title, message, map[string]string{
			"当前增长率": fmt.Sprintf("%.1f%%", ev.Value),
			"告警阈值":  fmt.Sprintf("%.1f%%", ev.Threshold),
		})
		if err := mail.SendHTML(user.Email, title, html); err != nil {
			log.WarnContext(ctx, "send alert email failed", "user_id", ev.UserID, "err", err)
		}
	}

	if pref.WebhookNotifications && pref.WebhookURL != "" {
		s.postWebhook(ctx, pref.WebhookURL, ev, title, message)
	}

	return nil
}

// publishLive 推送到用户的实时通知频道，供 WebSocket 侧转发
func (s *notificationServiceImpl) publishLive(ctx context.Context, userID uint64, n *mongo.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.WarnContext(ctx, "marshal notification failed", "err", err)
		return
	}
	channel := consts.NotifyChannelKey + strconv.FormatUint(userID, 10)
	if err := redis.Publish(ctx, channel, string(payload)); err != nil {
		log.WarnContext(ctx, "publish notification failed", "channel", channel, "err", err)
	}
}

func (s *notificationServiceImpl) postWebhook(ctx context.Context, url string, ev *TriggerEvent, title string, message string) {
	resp, err := s.webhook.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"title":       title,
			"message":     message,
			"entityType":  ev.EntityType,
			"entityId":    ev.EntityID,
			"entityName":  ev.EntityName,
			"metric":      ev.Metric,
			"value":       ev.Value,
			"threshold":   ev.Threshold,
			"triggeredAt": ev.TriggeredAt,
		}).
		Post(url)
	if err != nil {
		log.WarnContext(ctx, "webhook delivery failed", "url", url, "err", err)
		return
	}
	if resp.IsError() {
		log.WarnContext(ctx, "webhook returned error", "url", url, "status", resp.StatusCode())
	}
}

func (s *notificationServiceImpl) List(ctx context.Context, userID uint64, before time.Time, pageSize int) ([]*mongo.Notification, error) {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return s.notifRepo.GetByUser(ctx, userID, before, pageSize)
}

func (s *notificationServiceImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	return s.notifRepo.CountUnread(ctx, userID)
}

func (s *notificationServiceImpl) MarkRead(ctx context.Context, userID uint64, id string) error {
	return s.notifRepo.MarkRead(ctx, userID, id)
}

func (s *notificationServiceImpl) MarkAllRead(ctx context.Context, userID uint64) error {
	return s.notifRepo.MarkAllRead(ctx, userID)
}

func (s *notificationServiceImpl) SendDailyDigest(ctx context.Context) error {
	recipients, err := s.userRepo.ListDigestRecipients(ctx)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		return nil
	}

	hashtags, err := s.hashtagRepo.TopByScore(ctx, 5)
	if err != nil {
		return err
	}
	sounds, err := s.soundRepo.TopByScore(ctx, 5)
	if err != nil {
		return err
	}
	creators, err := s.creatorRepo.TopByScore(ctx, 5)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("📈 今日趋势速报 · %s", time.Now().Format("2006-01-02"))
	html := buildDigestHTML(title, hashtags, sounds, creators)

	now := time.Now()
	for _, user := range recipients {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		notification := &mongo.Notification{
			UserID:    user.ID,
			Type:      consts.NotificationTypeDailyDigest,
			Title:     title,
			Message:   fmt.Sprintf("今日热榜：%d 个话题、%d 个音乐、%d 位创作者", len(hashtags), len(sounds), len(creators)),
			CreatedAt: now,
		}
		if err := s.notifRepo.SaveNotification(ctx, notification); err != nil {
			log.WarnContext(ctx, "save digest notification failed", "user_id", user.ID, "err", err)
			continue
		}
		s.publishLive(ctx, user.ID, notification)

		if user.Email == "" {
			continue
		}
		if err := mail.SendHTML(user.Email, title, html); err != nil {
			log.WarnContext(ctx, "send digest email failed", "user_id", user.ID, "err", err)
		}
	}
	return nil
}

func buildDigestHTML(title string, hashtags []*model.Hashtag, sounds []*model.Sound, creators []*model.Creator) string {
	metrics := make(map[string]string, 15)
	for i, h := range hashtags {
		metrics[fmt.Sprintf("话题 Top%d · #%s", i+1, h.DisplayName)] = fmt.Sprintf("%s 次浏览 · 热度 %d", util.FormatCount(h.ViewCount), h.TrendScore)
	}
	for i, snd := range sounds {
		metrics[fmt.Sprintf("音乐 Top%d · %s", i+1, snd.Title)] = fmt.Sprintf("%s 次播放 · 热度 %d", util.FormatCount(snd.PlayCount), snd.TrendScore)
	}
	for i, c := range creators {
		metrics[fmt.Sprintf("创作者 Top%d · %s", i+1, c.Nickname)] = fmt.Sprintf("%s 粉丝 · 热度 %d", util.FormatCount(c.FollowerCount), c.TrendScore)
	}
	return mail.BuildAlertHTML(title, "过去 24 小时平台上最热的内容都在这里。", metrics)
}
