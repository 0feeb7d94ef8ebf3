package models

import (
	"time"

	"gorm.io/datatypes"
)

const RecordStatusPublish = "publish"

type ProfileRecord struct {
	ID          string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Slug        string  `gorm:"column:slug;type:varchar(200);uniqueIndex" json:"slug"`
	AccountID   string  `gorm:"column:account_id;type:uuid;index" json:"account_id"`
	FormType    string  `gorm:"column:form_type;type:varchar(40);index" json:"form_type"`
	RecordType  string  `gorm:"column:record_type;type:varchar(60)" json:"record_type"`
	Title       string  `gorm:"column:title;type:text" json:"title"`
	Body        string  `gorm:"column:body;type:text" json:"body"`
	Status      string  `gorm:"column:status;type:varchar(20)" json:"status"`
	ThumbnailID *string `gorm:"column:thumbnail_id;type:uuid" json:"thumbnail_id,omitempty"`

	// open-ended, typed per form type by its field mapping table
	Metadata datatypes.JSONMap `gorm:"column:metadata" json:"metadata"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ProfileRecord) TableName() string { return "profile_records" }
