package lms

import (
	"time"

	"gorm.io/gorm"
)

// ActivityProgress states
const (
	ProgressStarted         = "Started"
	ProgressSubmitted       = "Submitted"
	ProgressPendingApproval = "Pending Approval"
	ProgressCompleted       = "Completed"
	ProgressRejected        = "Rejected"
)

// ActivityProgress is one user's state on one activity. Only an admin
// approval moves it to Completed, which is what enrollment progress counts.
type ActivityProgress struct {
	gorm.Model
	EnrollmentID uint `gorm:"not null;uniqueIndex:idx_progress_enrollment_activity" json:"enrollmentId"`
	ActivityID   uint `gorm:"not null;uniqueIndex:idx_progress_enrollment_activity" json:"activityId"`
	UserID       uint `gorm:"index;not null" json:"userId"`

	Status string `gorm:"type:varchar(20);default:'Started'" json:"status"`

	WatchTime         int        `gorm:"default:0" json:"watchTime"` // seconds, for videos
	PercentageWatched int        `gorm:"default:0" json:"percentageWatched"`
	QuizAttempts      int        `gorm:"default:0" json:"quizAttempts"`
	LastAttemptAt     *time.Time `json:"lastAttemptAt"`

	SubmissionContent string `gorm:"type:text" json:"submissionContent"`
	Marks             int    `gorm:"default:0" json:"marks"`

	IsApproved   bool       `gorm:"default:false" json:"isApproved"`
	ApprovedByID *uint      `json:"approvedBy"`
	ApprovedAt   *time.Time `json:"approvedAt"`
	Remarks      string     `gorm:"type:text" json:"remarks"`
}
