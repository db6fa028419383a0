package lms

import "gorm.io/gorm"

// Course is a section of a program
type Course struct {
	gorm.Model
	ProgramID   uint   `gorm:"index;not null" json:"programId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

// Module is a section of a course
type Module struct {
	gorm.Model
	CourseID    uint   `gorm:"index;not null" json:"courseId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}

// Lesson is a section of a module
type Lesson struct {
	gorm.Model
	ModuleID    uint   `gorm:"index;not null" json:"moduleId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	OrderIndex  int    `gorm:"default:0" json:"orderIndex"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`
}
