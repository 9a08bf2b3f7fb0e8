package dto

// CreateAlertDTO 新建告警规则
type CreateAlertDTO struct {
	EntityType      string  `json:"entityType" binding:"required,oneof=hashtag sound creator"`
	EntityID        uint64  `json:"entityId" binding:"required"`
	Threshold       float64 `json:"threshold" binding:"required"`
	Condition       string  `json:"condition"`
	CooldownSeconds int     `json:"cooldownSeconds" binding:"min=0"`
}

// UpdateAlertDTO 调整阈值与冷却
type UpdateAlertDTO struct {
	Threshold       float64 `json:"threshold" binding:"required"`
	CooldownSeconds int     `json:"cooldownSeconds" binding:"min=0"`
}

// ToggleAlertDTO 启停告警规则
type ToggleAlertDTO struct {
	IsActive *bool `json:"isActive" binding:"required"`
}
