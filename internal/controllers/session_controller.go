package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astegni_backend/internal/config"
	"astegni_backend/internal/models"
	"astegni_backend/internal/roles"
)

// CreateSession books a tutoring session. A student books with a
// tutor, a tutor books with a student; the caller's own side comes
// from their active profile, the other side from the request, and both
// must resolve to live profiles.
func CreateSession(c *gin.Context) {
	var input struct {
		TutorProfileID   uint      `json:"tutor_profile_id"`
		StudentProfileID uint      `json:"student_profile_id"`
		Subject          string    `json:"subject" binding:"required"`
		ScheduledAt      time.Time `json:"scheduled_at" binding:"required"`
		DurationMinutes  int       `json:"duration_minutes"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateSession: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	resolver := roles.NewResolver(config.DB)
	userID := currentUserID(c)

	switch currentActiveRole(c) {
	case string(roles.Student):
		own, err := resolver.ResolveProfile(userID, roles.Student)
		if err != nil {
			roleHTTPError(c, err)
			return
		}
		input.StudentProfileID = own.ID
		if input.TutorProfileID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tutor_profile_id is required"})
			return
		}
	case string(roles.Tutor):
		own, err := resolver.ResolveProfile(userID, roles.Tutor)
		if err != nil {
			roleHTTPError(c, err)
			return
		}
		input.TutorProfileID = own.ID
		if input.StudentProfileID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "student_profile_id is required"})
			return
		}
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "only tutors and students book sessions"})
		return
	}

	if err := resolver.ValidateProfileExists(input.TutorProfileID, roles.Tutor); err != nil {
		roleHTTPError(c, err)
		return
	}
	if err := resolver.ValidateProfileExists(input.StudentProfileID, roles.Student); err != nil {
		roleHTTPError(c, err)
		return
	}

	if input.DurationMinutes <= 0 {
		input.DurationMinutes = 60
	}

	session := models.Session{
		TutorProfileID:   input.TutorProfileID,
		StudentProfileID: input.StudentProfileID,
		Subject:          input.Subject,
		ScheduledAt:      input.ScheduledAt,
		DurationMinutes:  input.DurationMinutes,
		Status:           "scheduled",
	}
	if err := config.DB.Create(&session).Error; err != nil {
		logrus.WithError(err).Error("CreateSession: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": session})
}

// ListSessions returns the sessions of the caller's active profile.
func ListSessions(c *gin.Context) {
	resolver := roles.NewResolver(config.DB)
	userID := currentUserID(c)

	var sessions []models.Session
	var err error
	switch currentActiveRole(c) {
	case string(roles.Student):
		own, rerr := resolver.ResolveProfile(userID, roles.Student)
		if rerr != nil {
			roleHTTPError(c, rerr)
			return
		}
		err = config.DB.Where("student_profile_id = ?", own.ID).Find(&sessions).Error
	case string(roles.Tutor):
		own, rerr := resolver.ResolveProfile(userID, roles.Tutor)
		if rerr != nil {
			roleHTTPError(c, rerr)
			return
		}
		err = config.DB.Where("tutor_profile_id = ?", own.ID).Find(&sessions).Error
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "only tutors and students have sessions"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing sessions: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": sessions})
}
