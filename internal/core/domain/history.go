package domain

import (
	"fmt"
	"strings"
	"time"
)

// TargetType tags the entity kind a history row points at.
type TargetType string

const (
	TargetServer  TargetType = "server"
	TargetDomain  TargetType = "domain"
	TargetProject TargetType = "project"
	TargetGroup   TargetType = "group"
	TargetFinance TargetType = "finance"
	TargetUser    TargetType = "user"
)

var targetTypes = []TargetType{TargetServer, TargetDomain, TargetProject, TargetGroup, TargetFinance, TargetUser}

// ParseTargetType accepts the singular noun or its plural route segment
// ("servers", "finance") in any case.
func ParseTargetType(s string) (TargetType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range targetTypes {
		if s == string(t) || s == string(t)+"s" {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: unknown history type %q", ErrValidation, s)
}

const (
	ActionCreated = "Created"
	ActionUpdated = "Updated"
)

// History is one immutable audit row.
type History struct {
	ID         uint64     `json:"id" gorm:"primaryKey"`
	TargetID   uint       `json:"target_id" gorm:"column:target_id;index:idx_history_target"`
	TargetType TargetType `json:"target_type" gorm:"column:target_type;index:idx_history_target"`
	User       string     `json:"user" gorm:"column:user"`
	Action     string     `json:"action" gorm:"column:action"`
	Changes    string     `json:"changes" gorm:"column:changes;type:text"`
	Timestamp  time.Time  `json:"timestamp" gorm:"column:timestamp;index"`
}

// TableName pins the audit table name.
func (History) TableName() string { return "history" }
