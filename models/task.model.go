package models

import (
	"time"

	"gorm.io/gorm"
)

// Submission states
const (
	SubmissionSubmitted    = "Submitted"
	SubmissionApproved     = "Approved"
	SubmissionRejected     = "Rejected"
	SubmissionResubmission = "Resubmission Required"
)

// Task is an internship assignment published to all students of a domain
type Task struct {
	gorm.Model
	Title           string     `gorm:"not null" json:"title"`
	Description     string     `gorm:"type:text;not null" json:"description"`
	Type            string     `gorm:"type:varchar(20);not null" json:"type"` // MCQ, File, Link, Text
	InternshipDomain string    `gorm:"index;not null" json:"internshipDomain"`
	MaxMarks        int        `gorm:"default:100" json:"maxMarks"`
	PassingMarks    int        `gorm:"default:40" json:"passingMarks"`
	Deadline        *time.Time `json:"deadline"`
	CreatedByID     uint       `json:"createdBy"`
}

// Submission is a student's answer to a task for one application
type Submission struct {
	gorm.Model
	TaskID        uint   `gorm:"index;not null" json:"taskId"`
	StudentID     uint   `gorm:"index;not null" json:"studentId"`
	ApplicationID uint   `gorm:"index;not null" json:"applicationId"`
	Content       string `gorm:"type:text;not null" json:"content"` // text, file URL or link

	Status        string     `gorm:"type:varchar(30);default:'Submitted'" json:"status"`
	Marks         int        `gorm:"default:0" json:"marks"`
	AdminRemarks  string     `gorm:"type:text" json:"adminRemarks"`
	EvaluatedByID *uint      `json:"evaluatedBy"`
	EvaluatedAt   *time.Time `json:"evaluatedAt"`

	Task    Task `gorm:"foreignKey:TaskID" json:"-"`
	Student User `gorm:"foreignKey:StudentID" json:"-"`
}

// ActivityProgress tracks internship task completion per application. The
// certificate document is gated on IsEligibleForCertificate, which only an
// admin sets; it is never derived from the percentage.
type ActivityProgress struct {
	gorm.Model
	ApplicationID uint `gorm:"uniqueIndex;not null" json:"applicationId"`
	UserID        uint `gorm:"index;not null" json:"userId"`

	IsEligibleForCertificate bool `gorm:"default:false" json:"isEligibleForCertificate"`
	ProgressPercentage       int  `gorm:"default:0" json:"progressPercentage"`
	CompletedTasksCount      int  `gorm:"default:0" json:"completedTasksCount"`
	AdminManuallyCompleted   bool `gorm:"default:false" json:"adminManuallyCompleted"`

	LastUpdatedByID *uint `json:"lastUpdatedBy"`
}

// TableName keeps this table apart from the LMS activity progress table,
// which would otherwise share the default name.
func (ActivityProgress) TableName() string {
	return "internship_progresses"
}
