package lms

import (
	"time"

	"gorm.io/gorm"
)

// Enrollment states
const (
	EnrollmentActive    = "Active"
	EnrollmentCompleted = "Completed"
	EnrollmentDropped   = "Dropped"
	EnrollmentLocked    = "Locked"
)

// Enrollment is a user's instance of taking a program. Progress is recomputed
// from required-activity completions and never written directly; Status only
// flips to Completed through certificate issuance.
type Enrollment struct {
	gorm.Model
	UserID        uint  `gorm:"not null;uniqueIndex:idx_enrollment_user_program" json:"userId"`
	ProgramID     uint  `gorm:"not null;uniqueIndex:idx_enrollment_user_program" json:"programId"`
	ApplicationID *uint `gorm:"index" json:"applicationId"`

	Progress int    `gorm:"default:0" json:"progress"` // 0-100
	Status   string `gorm:"type:varchar(20);default:'Active'" json:"status"`

	EnrolledAt          time.Time  `json:"enrolledAt"`
	CompletedAt         *time.Time `json:"completedAt"`
	IsCertificateIssued bool       `gorm:"default:false" json:"isCertificateIssued"`

	Program Program `gorm:"foreignKey:ProgramID" json:"-"`
}
