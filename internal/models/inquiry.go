package models

import (
	"time"
)

// Inquiry status values.
const (
	InquiryStatusNew        = "new"
	InquiryStatusInProgress = "in_progress"
	InquiryStatusCompleted  = "completed"
	InquiryStatusArchived   = "archived"
)

// Inquiry 문의 폼 제출 내역
type Inquiry struct {
	ID               string `gorm:"type:varchar(36);primaryKey" json:"id"`
	FirstName        string `gorm:"size:100;not null" json:"firstName"`
	LastName         string `gorm:"size:100;not null" json:"lastName"`
	Email            string `gorm:"size:255;not null;index" json:"email"`
	Phone            string `gorm:"size:50;not null" json:"phone"`
	PreferredContact string `gorm:"size:20;not null" json:"preferredContact"`

	CompanyName string `gorm:"size:255" json:"companyName,omitempty"`
	JobTitle    string `gorm:"size:255" json:"jobTitle,omitempty"`
	Website     string `gorm:"size:500" json:"website,omitempty"`

	InquiryType string `gorm:"size:30;not null" json:"inquiryType"`
	Subject     string `gorm:"size:255;not null" json:"subject"`
	Message     string `gorm:"type:text;not null" json:"message"`
	Urgency     string `gorm:"size:20;not null" json:"urgency"`

	Budget         string `gorm:"size:100" json:"budget,omitempty"`
	Timeline       string `gorm:"size:100" json:"timeline,omitempty"`
	ReferralSource string `gorm:"size:100" json:"referralSource,omitempty"`

	NewsletterOptIn    bool   `gorm:"not null;default:false" json:"newsletterOptIn"`
	FollowUpPreference string `gorm:"size:20;not null" json:"followUpPreference"`
	Timezone           string `gorm:"size:64;not null" json:"timezone"`

	Status    string    `gorm:"size:20;not null;default:'new';index" json:"status"`
	IPAddress string    `gorm:"size:64" json:"ipAddress"`
	UserAgent string    `gorm:"size:500" json:"userAgent"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Inquiry) TableName() string {
	return "inquiries"
}
