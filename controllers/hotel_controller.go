package controllers

import (
	"errors"
	"net/http"

	"hotel-backoffice/config"
	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func GetHotels(c *gin.Context) {
	var hotels []models.Hotel
	config.DB.Find(&hotels)
	utils.JSONSuccess(c, http.StatusOK, hotels)
}

func GetHotel(c *gin.Context) {
	var hotel models.Hotel
	if err := config.DB.Preload("Rooms.RoomCategory").First(&hotel, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.JSONError(c, http.StatusNotFound, "error.notFound", "hotel not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to load hotel")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, hotel)
}

func CreateHotel(c *gin.Context) {
	var hotel models.Hotel
	if err := c.ShouldBindJSON(&hotel); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"invalid hotel payload", err.Error())
		return
	}

	if err := config.DB.Create(&hotel).Error; err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to create hotel")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, hotel)
}

func DeleteHotel(c *gin.Context) {
	result := config.DB.Delete(&models.Hotel{}, c.Param("id"))
	if result.RowsAffected == 0 {
		utils.JSONError(c, http.StatusNotFound, "error.notFound", "hotel not found")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "hotel deleted"})
}
