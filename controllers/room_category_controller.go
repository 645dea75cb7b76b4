package controllers

import (
	"net/http"

	"hotel-backoffice/config"
	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

func GetRoomCategories(c *gin.Context) {
	var categories []models.RoomCategory
	config.DB.Find(&categories)
	utils.JSONSuccess(c, http.StatusOK, categories)
}

func CreateRoomCategory(c *gin.Context) {
	var cat models.RoomCategory
	if err := c.ShouldBindJSON(&cat); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"invalid category payload", err.Error())
		return
	}

	if err := config.DB.Create(&cat).Error; err != nil {
		if isDuplicateKeyError(err) {
			utils.JSONError(c, http.StatusConflict, "error.duplicate", "category name already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to create category")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cat)
}

func DeleteRoomCategory(c *gin.Context) {
	id := c.Param("id")
	config.DB.Delete(&models.RoomCategory{}, id)
	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room category deleted"})
}
