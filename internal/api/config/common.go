package config

// Config 配置主体
type Config struct {
	Server               ServerConfig         `mapstructure:"server"`
	DB                   DBConfig             `mapstructure:"database"`
	Redis                RedisConfig          `mapstructure:"redis"`
	Mongo                MongoConfig          `mapstructure:"mongo"`
	Elastic              ElasticConfig        `mapstructure:"elastic"`
	Logstash             LogstashConfig       `mapstructure:"logstash"`
	TikTok               TikTokConfig         `mapstructure:"tiktok"`
	SMTP                 SMTPConfig           `mapstructure:"smtp"`
	LLM                  LLMConfig            `mapstructure:"llm"`
	Ingest               IngestConfig         `mapstructure:"ingest"`
	Cron                 CronConfig           `mapstructure:"cron"`
	Kafka                KafkaConfig          `mapstructure:"kafka"`
	KafkaRefreshConsumer KafkaRefreshConsumer `mapstructure:"kafka_refresh_consumer"`
}

// ServerConfig Server配置
type ServerConfig struct {
	Port       int    `mapstructure:"port"`
	CronSecret string `mapstructure:"cron_secret"`
}

// DBConfig 数据库配置
type DBConfig struct {
	DSN         string `mapstructure:"dsn"`
	MaxIdle     int    `mapstructure:"max_idle"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxLifetime int    `mapstructure:"max_lifetime"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// MongoConfig Mongo配置
type MongoConfig struct {
	URL      string `mapstructure:"url"`
	Database string `mapstructure:"database"`
}

// ElasticConfig Elastic配置
type ElasticConfig struct {
	Address  string `mapstructure:"address"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Index    string `mapstructure:"index"`
}

// LogstashConfig 远程日志配置
type LogstashConfig struct {
	Address string `mapstructure:"address"`
	Index   string `mapstructure:"index"`
	Token   string `mapstructure:"token"`
}

// TikTokConfig 上游数据源（RapidAPI）配置
type TikTokConfig struct {
	Host         string `mapstructure:"host"`
	ApiKey       string `mapstructure:"api_key"`
	Region       string `mapstructure:"region"`
	FeedCount    int    `mapstructure:"feed_count"`
	Timeout      int    `mapstructure:"timeout"`
	CacheSeconds int    `mapstructure:"cache_seconds"`
}

// SMTPConfig 邮件发送配置
type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type LLMConfig struct {
	URL         string           `mapstructure:"url"`
	TextModel   string           `mapstructure:"text_model"`
	ApiKey      string           `mapstructure:"api_key"`
	PromptsPath PromptPathConfig `mapstructure:"prompts_path"`
}

type PromptPathConfig struct {
	ContentIdeas string `mapstructure:"content_ideas"`
	TrendPredict string `mapstructure:"trend_predict"`
}

// IngestConfig 采集管线配置
type IngestConfig struct {
	Workers             int `mapstructure:"workers"`
	FetchTimeout        int `mapstructure:"fetch_timeout"`
	VelocityWindowHours int `mapstructure:"velocity_window_hours"`
}

// CronConfig 定时任务触发表达式
type CronConfig struct {
	FetchTrends string `mapstructure:"fetch_trends"`
	CheckAlerts string `mapstructure:"check_alerts"`
	DailyDigest string `mapstructure:"daily_digest"`
}

type KafkaConfig struct {
	Brokers  []string       `mapstructure:"brokers"`
	Sasl     SaslConfig     `mapstructure:"sasl"`
	Consumer ConsumerConfig `mapstructure:"consumer"`
}

type SaslConfig struct {
	Enable   bool   `mapstructure:"enable"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type ConsumerConfig struct {
	SessionTimeout    int `mapstructure:"session_timeout"`
	HeartbeatInterval int `mapstructure:"heartbeat_interval"`
	RebalanceTimeout  int `mapstructure:"rebalance_timeout"`
	MaxProcessingTime int `mapstructure:"max_processing_time"`
}

type KafkaRefreshConsumer struct {
	Topic   string `mapstructure:"topic"`
	GroupID string `mapstructure:"group_id"`
}
