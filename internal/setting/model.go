// File: internal/setting/model.go
package setting

import (
	"time"
)

// Well-known setting keys.
const (
	KeyGlobalUserManual = "global_user_manual"
)

// Setting is a site-wide key/value entry editable from the back office.
type Setting struct {
	Key       string    `gorm:"type:varchar(100);primary_key" json:"key"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// TableName specifies the table name for the Setting model.
func (Setting) TableName() string {
	return "settings"
}

// UpsertSettingRequest is the admin payload for writing a setting.
type UpsertSettingRequest struct {
	Value string `json:"value" binding:"required"`
}
