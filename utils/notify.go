package utils

import (
	"encoding/json"
	"log"

	"internhub/database"
	"internhub/models"

	"gorm.io/datatypes"
)

// CreateNotification stores an in-app notification. Failures are logged and
// swallowed so a notification hiccup never breaks the triggering request.
func CreateNotification(recipientID uint, title, message, notifType string) {
	notification := models.Notification{
		RecipientID: recipientID,
		Title:       title,
		Message:     message,
		Type:        notifType,
	}
	if err := database.Database.Db.Create(&notification).Error; err != nil {
		log.Printf("Failed to create notification for user %d: %v", recipientID, err)
	}
}

// RecordAudit writes an admin action to the audit log. Details can be any
// JSON-serializable payload describing what changed.
func RecordAudit(adminID uint, actionType, targetType string, targetID uint, details interface{}, ip string) {
	var payload datatypes.JSON
	if details != nil {
		raw, err := json.Marshal(details)
		if err != nil {
			log.Printf("Failed to marshal audit details: %v", err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}

	entry := models.AuditLog{
		AdminID:    adminID,
		ActionType: actionType,
		TargetType: targetType,
		TargetID:   targetID,
		Details:    payload,
		IPAddress:  ip,
	}
	if err := database.Database.Db.Create(&entry).Error; err != nil {
		log.Printf("Failed to record audit log (%s %s/%d): %v", actionType, targetType, targetID, err)
	}
}
