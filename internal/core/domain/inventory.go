package domain

import "time"

// Server is a machine tracked in the inventory.
type Server struct {
	ID           uint     `json:"id" gorm:"primaryKey"`
	OS           string   `json:"os" gorm:"column:os"`
	IP           string   `json:"ip" gorm:"column:ip"`
	AdditionalIP string   `json:"additional_ip" gorm:"column:additional_ip;type:text"`
	Comments     string   `json:"comments" gorm:"column:comments;type:text"`
	Hoster       string   `json:"hoster" gorm:"column:hoster"`
	Status       string   `json:"status" gorm:"column:status"`
	GroupID      *uint    `json:"group_id" gorm:"column:group_id;index"`
	Group        *Group   `json:"group,omitempty"`
	ProjectID    *uint    `json:"project_id" gorm:"column:project_id;index"`
	Project      *Project `json:"project,omitempty"`
	Country      string   `json:"country" gorm:"column:country"`
	SSHUser      string   `json:"ssh_user" gorm:"column:ssh_user"`
	SSHPass      string   `json:"ssh_pass" gorm:"column:ssh_pass"`
	SSHPort      int      `json:"ssh_port" gorm:"column:ssh_port"`
	ContPass     string   `json:"cont_pass" gorm:"column:cont_pass"`
}

// Domain is a DNS name managed for a group.
type Domain struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	Name       string `json:"name" gorm:"column:name"`
	GroupID    *uint  `json:"group_id" gorm:"column:group_id;index"`
	Group      *Group `json:"group,omitempty"`
	Status     string `json:"status" gorm:"column:status"`
	NS         string `json:"ns" gorm:"column:ns"`
	ARecord    string `json:"a_record" gorm:"column:a_record"`
	AAAARecord string `json:"aaaa_record" gorm:"column:aaaa_record"`
}

// Project owns groups.
type Project struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Title string `json:"title" gorm:"column:title;uniqueIndex;not null"`
}

// Group owns servers and domains and optionally belongs to a project.
type Group struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	Title       string   `json:"title" gorm:"column:title;uniqueIndex;not null"`
	ProjectID   *uint    `json:"project_id" gorm:"column:project_id;index"`
	Project     *Project `json:"project,omitempty"`
	Status      string   `json:"status" gorm:"column:status"`
	Description string   `json:"description" gorm:"column:description;type:text"`
}

// Finance is one billing record for a server.
type Finance struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ServerID      uint      `json:"server_id" gorm:"column:server_id;not null;index"`
	Server        *Server   `json:"server,omitempty"`
	Price         float64   `json:"price" gorm:"column:price"`
	AccountStatus string    `json:"account_status" gorm:"column:account_status"`
	PaymentDate   time.Time `json:"payment_date" gorm:"column:payment_date"`
}

// TableName keeps the singular table name used by the billing reports.
func (Finance) TableName() string { return "finance" }
