package lms

import (
	"time"

	"gorm.io/gorm"
)

// Certificate states
const (
	CertificateIssued  = "Issued"
	CertificateRevoked = "Revoked"
)

// Certificate is issued at most once per enrollment, only at 100% progress
// and only by an admin.
type Certificate struct {
	gorm.Model
	EnrollmentID uint `gorm:"uniqueIndex;not null" json:"enrollmentId"`
	UserID       uint `gorm:"index;not null" json:"userId"`
	ProgramID    uint `gorm:"index;not null" json:"programId"`

	CertificateID   string    `gorm:"uniqueIndex;not null" json:"certificateId"`
	IssueDate       time.Time `json:"issueDate"`
	Status          string    `gorm:"type:varchar(20);default:'Issued'" json:"status"`
	ApprovedByID    uint      `gorm:"not null" json:"approvedBy"`
	VerificationURL string    `json:"verificationUrl"`
}
