package consts

const (
	EntityTypeHashtag = "hashtag"
	EntityTypeSound   = "sound"
	EntityTypeCreator = "creator"
)

// ConditionGTE 告警规则目前仅支持的比较条件
const (
	ConditionGTE = ">="
)

const (
	NotificationTypeTrendAlert  = "TREND_ALERT"
	NotificationTypeDailyDigest = "DAILY_DIGEST"
)
