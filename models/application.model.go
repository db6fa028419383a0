package models

import (
	"time"

	"gorm.io/gorm"
)

// Application review states
const (
	StatusNew       = "New"
	StatusReviewed  = "Reviewed"
	StatusContacted = "Contacted"
	StatusSelected  = "Selected"
	StatusRejected  = "Rejected"
	StatusApproved  = "Approved"
	StatusCompleted = "Completed"
)

// Payment states on the application
const (
	PaymentPending    = "Pending"
	PaymentProcessing = "Processing"
	PaymentVerified   = "Verified"
	PaymentFailed     = "Failed"
)

// ActiveStatuses are the review states that block a second application for
// the same user and domain.
var ActiveStatuses = []string{StatusNew, StatusReviewed, StatusContacted, StatusSelected, StatusApproved}

// Application is one internship request with its review and payment state
type Application struct {
	gorm.Model
	UserID          uint   `gorm:"index" json:"userId"`
	Name            string `gorm:"not null" json:"name"`
	Email           string `gorm:"not null" json:"email"`
	Phone           string `gorm:"not null" json:"phone"`
	College         string `gorm:"not null" json:"college"`
	Course          string `json:"course"`
	Year            string `json:"year"`
	Skills          string `json:"skills"`
	Experience      string `json:"experience"`
	PreferredDomain string `gorm:"index;not null" json:"preferredDomain"`
	Duration        int    `gorm:"default:1" json:"duration"` // months
	Amount          int    `gorm:"default:0" json:"amount"`

	PaymentStatus    string `gorm:"type:varchar(20);default:'Pending'" json:"paymentStatus"`
	TransactionID    string `gorm:"type:varchar(100)" json:"transactionId"`
	GatewayOrderID   string `gorm:"type:varchar(100);index" json:"gatewayOrderId"`
	GatewayPaymentID string `gorm:"type:varchar(100)" json:"gatewayPaymentId"`
	GatewaySignature string `gorm:"type:varchar(255)" json:"gatewaySignature"`

	StartDate         *time.Time `json:"startDate"`
	EndDate           *time.Time `json:"endDate"`
	DocumentIssueDate *time.Time `json:"documentIssueDate"`

	Status string `gorm:"type:varchar(20);default:'New';index" json:"status"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
