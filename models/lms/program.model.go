package lms

import "gorm.io/gorm"

// Program is the top of the LMS content tree. Applications are auto-enrolled
// into the published program matching their internship domain.
type Program struct {
	gorm.Model
	Title            string `gorm:"not null" json:"title"`
	Description      string `gorm:"type:text" json:"description"`
	Thumbnail        string `json:"thumbnail"`
	Duration         string `json:"duration"` // e.g. "4 Weeks", "3 Months"
	InternshipDomain string `gorm:"index;not null" json:"internshipDomain"`
	IsPublished      bool   `gorm:"default:false" json:"isPublished"`
	CreatedByID      uint   `json:"createdBy"`
}
