package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"astegni_backend/internal/config"
	"astegni_backend/internal/models"
	"astegni_backend/internal/roles"
)

// CreateCampaign opens an ad campaign under the caller's advertiser
// profile, funded by an up-front deposit and billed per impression.
func CreateCampaign(c *gin.Context) {
	var input struct {
		Name              string `json:"name" binding:"required"`
		DepositCents      int64  `json:"deposit_cents" binding:"required"`
		CostPerImpression int64  `json:"cost_per_impression" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.DepositCents <= 0 || input.CostPerImpression <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deposit and cost per impression must be positive"})
		return
	}

	own, err := roles.NewResolver(config.DB).ResolveProfile(currentUserID(c), roles.Advertiser)
	if err != nil {
		roleHTTPError(c, err)
		return
	}

	campaign := models.Campaign{
		AdvertiserProfileID: own.ID,
		Name:                input.Name,
		DepositCents:        input.DepositCents,
		CostPerImpression:   input.CostPerImpression,
		IsActive:            true,
	}
	if err := config.DB.Create(&campaign).Error; err != nil {
		logrus.WithError(err).Error("CreateCampaign: insert failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create campaign"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": campaign})
}

// ListCampaigns returns the caller's campaigns.
func ListCampaigns(c *gin.Context) {
	own, err := roles.NewResolver(config.DB).ResolveProfile(currentUserID(c), roles.Advertiser)
	if err != nil {
		roleHTTPError(c, err)
		return
	}

	var campaigns []models.Campaign
	if err := config.DB.Where("advertiser_profile_id = ?", own.ID).Find(&campaigns).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing campaigns: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": campaigns})
}
