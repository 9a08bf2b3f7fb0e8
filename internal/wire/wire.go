package wire

import (
	"TrendPulse/internal/api"
	"TrendPulse/internal/api/config"
	"TrendPulse/internal/api/handler"
	"TrendPulse/internal/job"
	"TrendPulse/internal/pkg/cron"
	"TrendPulse/internal/pkg/es"
	"TrendPulse/internal/pkg/kafka"
	pkgmongo "TrendPulse/internal/pkg/mongo"
	"TrendPulse/internal/pkg/tiktok"
	"TrendPulse/internal/repository"
	"TrendPulse/internal/service"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router          *gin.Engine
	DB              *gorm.DB
	KafkaManager    *kafka.ConsumerManager
	RefreshProducer *kafka.RefreshProducer
	CronMgr         *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	hashtagRepo := repository.NewHashtagRepository(db)
	soundRepo := repository.NewSoundRepository(db)
	creatorRepo := repository.NewCreatorRepository(db)
	trendStore := repository.NewTrendStore(db)
	alertRuleRepo := repository.NewAlertRuleRepository(db)
	userRepo := repository.NewUserRepo(db)
	usageRepo := repository.NewAPIUsageRepository(db)

	notificationRepo := pkgmongo.NewNotificationRepo(mongoDB)
	trendESRepo := es.NewTrendRepo(es.Client)

	tiktokClient := tiktok.NewClient(cfg.TikTok, usageRepo)

	ingestService := service.NewIngestService(
		hashtagRepo, soundRepo, creatorRepo,
		trendStore, trendESRepo, tiktokClient,
		cfg.Ingest.Workers,
		time.Duration(cfg.Ingest.FetchTimeout)*time.Second,
		time.Duration(cfg.Ingest.VelocityWindowHours)*time.Hour,
	)
	alertService := service.NewAlertService(alertRuleRepo, trendStore, hashtagRepo, soundRepo, creatorRepo)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, hashtagRepo, soundRepo, creatorRepo)
	trendService := service.NewTrendService(hashtagRepo, soundRepo, creatorRepo, trendStore, alertRuleRepo, usageRepo, trendESRepo)
	insightService := service.NewInsightService(trendService)

	fetchTrendsJob := job.NewFetchTrendsJob(ingestService)
	checkAlertsJob := job.NewCheckAlertsJob(alertService, notificationService)
	dailyDigestJob := job.NewDailyDigestJob(notificationService)

	refreshProducer, err := kafka.NewRefreshProducer(cfg)
	if err != nil {
		return nil, err
	}

	handlers := &api.HandlersGroup{
		TrendHandler:        handler.NewTrendHandler(trendService, refreshProducer),
		AlertHandler:        handler.NewAlertHandler(alertService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		InsightHandler:      handler.NewInsightHandler(insightService),
		CronHandler:         handler.NewCronHandler(fetchTrendsJob, checkAlertsJob, dailyDigestJob),
		WSHandler:           handler.NewWsHandler(),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, ingestService)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(fetchTrendsJob, checkAlertsJob, dailyDigestJob)

	return &ApplicationContainer{
		Router:          router,
		DB:              db,
		KafkaManager:    kafkaMgr,
		RefreshProducer: refreshProducer,
		CronMgr:         cronMgr,
	}, nil
}
