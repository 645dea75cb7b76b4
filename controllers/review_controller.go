package controllers

import (
	"net/http"

	"hotel-backoffice/config"
	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

// GET /api/hotels/:id/reviews
func GetHotelReviews(c *gin.Context) {
	var reviews []models.Review
	if err := config.DB.Preload("User").
		Where("hotel_id = ?", c.Param("id")).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to list reviews")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reviews)
}

// POST /api/reviews
func CreateReview(c *gin.Context) {
	var review models.Review
	if err := c.ShouldBindJSON(&review); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"user_id, hotel_id and a rating between 1 and 5 are required", err.Error())
		return
	}

	var hotel models.Hotel
	if err := config.DB.First(&hotel, review.HotelID).Error; err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidReference", "hotel not found")
		return
	}
	var user models.User
	if err := config.DB.First(&user, review.UserID).Error; err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidReference", "user not found")
		return
	}

	if err := config.DB.Create(&review).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to create review")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, review)
}

// DELETE /api/reviews/:id
func DeleteReview(c *gin.Context) {
	result := config.DB.Delete(&models.Review{}, c.Param("id"))
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "error.notFound", "review not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "review deleted"})
}
