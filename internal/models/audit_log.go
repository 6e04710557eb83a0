package models

// AuditLog records signups, signins and chat-logged expenses.
type AuditLog struct {
	Base
	UserID       string `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `json:"resource_id"`
	Source       string `json:"source"`
	Changes      string `json:"changes,omitempty"`
}
