package dto

// TrendListDTO 榜单查询参数
type TrendListDTO struct {
	Limit int `form:"limit"`
}

// ChartQueryDTO 走势图查询参数，窗口单位为小时
type ChartQueryDTO struct {
	Window int `form:"window"`
}

// SearchDTO 实体检索参数
type SearchDTO struct {
	Keyword    string `form:"keyword" binding:"required"`
	EntityType string `form:"type"`
	Size       int    `form:"size"`
}

// NotificationListDTO 通知列表分页参数，before 为上一页最旧一条的时间
type NotificationListDTO struct {
	Before   string `form:"before"`
	PageSize int    `form:"pageSize"`
}
