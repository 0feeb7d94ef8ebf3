package models

import (
	"time"

	"github.com/lib/pq"
)

type AccountRole string

const (
	RoleUser  AccountRole = "user"
	RoleAdmin AccountRole = "admin"
)

type Account struct {
	ID           string      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Handle       string      `gorm:"column:handle;type:varchar(60);uniqueIndex" json:"handle"`
	Email        string      `gorm:"column:email;type:varchar(100);uniqueIndex" json:"email"`
	DisplayName  string      `gorm:"column:display_name;type:text" json:"display_name"`
	Description  string      `gorm:"column:description;type:text" json:"description"`
	PasswordHash string      `gorm:"column:password_hash;type:text" json:"-"`
	Role         AccountRole `gorm:"column:role;type:varchar(20)" json:"role"`

	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Account) TableName() string { return "accounts" }

// AccountRecordIndex is the per-account, per-form-type list of submitted
// record ids. Only ever appended to; the last id is the current record.
type AccountRecordIndex struct {
	AccountID string         `gorm:"column:account_id;type:uuid;primaryKey" json:"account_id"`
	FormType  string         `gorm:"column:form_type;type:varchar(40);primaryKey" json:"form_type"`
	IndexKey  string         `gorm:"column:index_key;type:varchar(80)" json:"index_key"`
	RecordIDs pq.StringArray `gorm:"column:record_ids;type:text" json:"record_ids"`
	UpdatedAt time.Time      `gorm:"column:updated_at" json:"updated_at"`
}

func (AccountRecordIndex) TableName() string { return "account_record_index" }

// Last returns the most recently appended record id.
func (i *AccountRecordIndex) Last() (string, bool) {
	if i == nil || len(i.RecordIDs) == 0 {
		return "", false
	}
	return i.RecordIDs[len(i.RecordIDs)-1], true
}
