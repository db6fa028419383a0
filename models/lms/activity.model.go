package lms

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Activity types
const (
	ActivityVideo        = "Video"
	ActivityPDF          = "PDF"
	ActivityText         = "Text"
	ActivityExternalLink = "ExternalLink"
	ActivityQuiz         = "Quiz"
	ActivityAssignment   = "Assignment"
	ActivityReflection   = "Reflection"
)

// QuizQuestion is one question inside an activity's quiz payload
type QuizQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
	QuestionType  string   `json:"questionType"` // MCQ, TrueFalse, Descriptive
}

// Activity is the leaf of the content tree. Only published, required
// activities count toward enrollment progress.
type Activity struct {
	gorm.Model
	LessonID uint   `gorm:"index;not null" json:"lessonId"`
	Title    string `gorm:"not null" json:"title"`
	Type     string `gorm:"type:varchar(20);not null" json:"type"`
	Content  string `gorm:"type:text" json:"content"` // URL for Video/PDF/Link, body for Text

	QuizData datatypes.JSON `json:"quizData"`

	OrderIndex   int  `gorm:"default:0" json:"orderIndex"`
	IsRequired   bool `gorm:"default:false" json:"isRequired"`
	PassingScore int  `gorm:"default:0" json:"passingScore"`
	MaxMarks     int  `gorm:"default:100" json:"maxMarks"`
	IsPublished  bool `gorm:"default:false" json:"isPublished"`
}
