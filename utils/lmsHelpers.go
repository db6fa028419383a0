package utils

import (
	"errors"
	"log"
	"math"
	"time"

	"internhub/models/lms"

	"gorm.io/gorm"
)

// AutoEnrollUser enrolls a user into the published program matching their
// internship domain. Returns the existing enrollment unchanged when one is
// already there, so repeating a status transition never duplicates rows.
func AutoEnrollUser(db *gorm.DB, userID uint, domain string, applicationID uint) (*lms.Enrollment, error) {
	var program lms.Program
	err := db.Where("internship_domain = ? AND is_published = ?", domain, true).First(&program).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("[LMS] No published program found for domain: %s", domain)
			return nil, nil
		}
		return nil, err
	}

	var enrollment lms.Enrollment
	err = db.Where("user_id = ? AND program_id = ?", userID, program.ID).First(&enrollment).Error
	if err == nil {
		return &enrollment, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment = lms.Enrollment{
		UserID:        userID,
		ProgramID:     program.ID,
		ApplicationID: &applicationID,
		Status:        lms.EnrollmentActive,
		EnrolledAt:    time.Now(),
	}
	if err := db.Create(&enrollment).Error; err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// requiredActivityIDs walks the published course -> module -> lesson chain of
// a program and returns the ids of published, required activities.
func requiredActivityIDs(db *gorm.DB, programID uint) ([]uint, error) {
	var courseIDs []uint
	if err := db.Model(&lms.Course{}).
		Where("program_id = ? AND is_published = ?", programID, true).
		Pluck("id", &courseIDs).Error; err != nil {
		return nil, err
	}
	if len(courseIDs) == 0 {
		return nil, nil
	}

	var moduleIDs []uint
	if err := db.Model(&lms.Module{}).
		Where("course_id IN ? AND is_published = ?", courseIDs, true).
		Pluck("id", &moduleIDs).Error; err != nil {
		return nil, err
	}
	if len(moduleIDs) == 0 {
		return nil, nil
	}

	var lessonIDs []uint
	if err := db.Model(&lms.Lesson{}).
		Where("module_id IN ? AND is_published = ?", moduleIDs, true).
		Pluck("id", &lessonIDs).Error; err != nil {
		return nil, err
	}
	if len(lessonIDs) == 0 {
		return nil, nil
	}

	var activityIDs []uint
	if err := db.Model(&lms.Activity{}).
		Where("lesson_id IN ? AND is_published = ? AND is_required = ?", lessonIDs, true, true).
		Pluck("id", &activityIDs).Error; err != nil {
		return nil, err
	}
	return activityIDs, nil
}

// UpdateEnrollmentProgress recomputes the completion percentage from required
// activity completions and writes back only the numeric field. It never
// touches Status: enrollments complete through certificate issuance alone.
func UpdateEnrollmentProgress(db *gorm.DB, enrollmentID uint) (int, error) {
	var enrollment lms.Enrollment
	if err := db.First(&enrollment, enrollmentID).Error; err != nil {
		return 0, err
	}

	activityIDs, err := requiredActivityIDs(db, enrollment.ProgramID)
	if err != nil {
		return 0, err
	}

	progress := 0
	if len(activityIDs) > 0 {
		var completed int64
		if err := db.Model(&lms.ActivityProgress{}).
			Where("enrollment_id = ? AND activity_id IN ? AND status = ?", enrollmentID, activityIDs, lms.ProgressCompleted).
			Count(&completed).Error; err != nil {
			return 0, err
		}
		progress = int(math.Round(float64(completed) / float64(len(activityIDs)) * 100))
		if progress > 100 {
			progress = 100
		}
	}

	if err := db.Model(&lms.Enrollment{}).
		Where("id = ?", enrollmentID).
		UpdateColumn("progress", progress).Error; err != nil {
		return 0, err
	}
	return progress, nil
}

// DeleteProgramCascade removes a program and everything under it. The source
// of truth for deletion order is the content tree: activities, lessons,
// modules, courses, then enrollment state and certificates, then the program.
// Kept as an explicit function instead of persistence hooks so the side
// effects stay visible and testable.
func DeleteProgramCascade(db *gorm.DB, programID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var courseIDs []uint
		if err := tx.Model(&lms.Course{}).Where("program_id = ?", programID).Pluck("id", &courseIDs).Error; err != nil {
			return err
		}

		if len(courseIDs) > 0 {
			var moduleIDs []uint
			if err := tx.Model(&lms.Module{}).Where("course_id IN ?", courseIDs).Pluck("id", &moduleIDs).Error; err != nil {
				return err
			}

			if len(moduleIDs) > 0 {
				var lessonIDs []uint
				if err := tx.Model(&lms.Lesson{}).Where("module_id IN ?", moduleIDs).Pluck("id", &lessonIDs).Error; err != nil {
					return err
				}

				if len(lessonIDs) > 0 {
					if err := tx.Where("lesson_id IN ?", lessonIDs).Delete(&lms.Activity{}).Error; err != nil {
						return err
					}
					if err := tx.Where("module_id IN ?", moduleIDs).Delete(&lms.Lesson{}).Error; err != nil {
						return err
					}
				}
				if err := tx.Where("course_id IN ?", courseIDs).Delete(&lms.Module{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("program_id = ?", programID).Delete(&lms.Course{}).Error; err != nil {
				return err
			}
		}

		var enrollmentIDs []uint
		if err := tx.Model(&lms.Enrollment{}).Where("program_id = ?", programID).Pluck("id", &enrollmentIDs).Error; err != nil {
			return err
		}
		if len(enrollmentIDs) > 0 {
			if err := tx.Where("enrollment_id IN ?", enrollmentIDs).Delete(&lms.ActivityProgress{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("program_id = ?", programID).Delete(&lms.Enrollment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("program_id = ?", programID).Delete(&lms.Certificate{}).Error; err != nil {
			return err
		}

		return tx.Delete(&lms.Program{}, programID).Error
	})
}
