package models

import "time"

type Attachment struct {
	ID         string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	AccountID  string `gorm:"column:account_id;type:uuid;index" json:"account_id"`
	Field      string `gorm:"column:field;type:varchar(60)" json:"field"`
	FileName   string `gorm:"column:file_name;type:text" json:"file_name"`
	ObjectName string `gorm:"column:object_name;type:text" json:"object_name"`
	URL        string `gorm:"column:url;type:text" json:"url"`

	FileSize     int64  `gorm:"column:file_size" json:"file_size"`
	MimeType     string `gorm:"column:mime_type;type:text" json:"mime_type"`
	ThumbnailURL string `gorm:"column:thumbnail_url;type:text" json:"thumbnail_url,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Attachment) TableName() string { return "attachments" }

// FileBlob is an uploaded file as received from the client, before storage.
type FileBlob struct {
	FileName    string
	ContentType string
	Data        []byte
}

func (b FileBlob) Empty() bool { return b.FileName == "" || len(b.Data) == 0 }
