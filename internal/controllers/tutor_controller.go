package controllers

import (
	"encoding/binary"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"astegni_backend/internal/config"
	"astegni_backend/internal/models"
	"astegni_backend/internal/roles"

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// TutorResponse mirrors models.TutorProfile with the teaching location
// as a GeoJSON string for JSON output.
type TutorResponse struct {
	ID               uint           `json:"ID"`
	CreatedAt        time.Time      `json:"CreatedAt"`
	UpdatedAt        time.Time      `json:"UpdatedAt"`
	DeletedAt        gorm.DeletedAt `json:"DeletedAt,omitempty"`
	UserID           uint           `json:"user_id"`
	Bio              string         `json:"bio"`
	Subjects         string         `json:"subjects"`
	HourlyRate       float64        `json:"hourly_rate"`
	YearsExperience  int            `json:"years_experience"`
	TeachingLocation string         `json:"teaching_location"` // GeoJSON point
}

func toTutorResponse(tutor models.TutorProfile) TutorResponse {
	jsonGeom, _ := convertWKBToGeoJSON(tutor.TeachingLocation)
	return TutorResponse{
		ID:               tutor.ID,
		CreatedAt:        tutor.CreatedAt,
		UpdatedAt:        tutor.UpdatedAt,
		DeletedAt:        tutor.DeletedAt,
		UserID:           tutor.UserID,
		Bio:              tutor.Bio,
		Subjects:         tutor.Subjects,
		HourlyRate:       tutor.HourlyRate,
		YearsExperience:  tutor.YearsExperience,
		TeachingLocation: jsonGeom,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ListTutors returns every tutor open for business. Public endpoint.
func ListTutors(c *gin.Context) {
	var tutors []models.TutorProfile
	q := config.DB.Where("is_active = ?", true)
	if subject := c.Query("subject"); subject != "" {
		q = q.Where("subjects LIKE ?", "%"+subject+"%")
	}
	if err := q.Find(&tutors).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing tutors: " + err.Error()})
		return
	}

	out := make([]TutorResponse, 0, len(tutors))
	for _, t := range tutors {
		out = append(out, toTutorResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GetTutor returns one active tutor profile by id. Public endpoint.
func GetTutor(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tutor id"})
		return
	}

	resolver := roles.NewResolver(config.DB)
	if err := resolver.ValidateProfileExists(uint(id), roles.Tutor); err != nil {
		roleHTTPError(c, err)
		return
	}

	var tutor models.TutorProfile
	if err := config.DB.First(&tutor, uint(id)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load tutor: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTutorResponse(tutor)})
}

// UpdateTutorProfile lets the authenticated tutor edit their own
// profile. The teaching location comes in as GeoJSON and is stored as
// WKB.
func UpdateTutorProfile(c *gin.Context) {
	var input struct {
		Bio              *string  `json:"bio"`
		Subjects         *string  `json:"subjects"`
		HourlyRate       *float64 `json:"hourly_rate"`
		YearsExperience  *int     `json:"years_experience"`
		TeachingLocation *string  `json:"teaching_location"` // GeoJSON point
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateTutorProfile: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	ref, err := roles.NewResolver(config.DB).ResolveProfile(currentUserID(c), roles.Tutor)
	if err != nil {
		roleHTTPError(c, err)
		return
	}

	updates := map[string]any{}
	if input.Bio != nil {
		updates["bio"] = *input.Bio
	}
	if input.Subjects != nil {
		updates["subjects"] = *input.Subjects
	}
	if input.HourlyRate != nil {
		updates["hourly_rate"] = *input.HourlyRate
	}
	if input.YearsExperience != nil {
		updates["years_experience"] = *input.YearsExperience
	}
	if input.TeachingLocation != nil {
		wkbBytes, err := parseAndConvertGeometry(*input.TeachingLocation)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
			return
		}
		updates["teaching_location"] = wkbBytes
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	if err := config.DB.Model(&models.TutorProfile{}).Where("id = ?", ref.ID).
		Updates(updates).Error; err != nil {
		logrus.WithError(err).Error("UpdateTutorProfile: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	var tutor models.TutorProfile
	if err := config.DB.First(&tutor, ref.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load profile"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": toTutorResponse(tutor)})
}
