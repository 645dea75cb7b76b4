package controllers

import (
	"net/http"

	"hotel-backoffice/config"
	"hotel-backoffice/models"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

// Roles are seeded reference data; authorization enforcement is out of
// scope here, the dashboard only reads them.
func GetRoles(c *gin.Context) {
	var roles []models.Role
	config.DB.Order("id ASC").Find(&roles)
	utils.JSONSuccess(c, http.StatusOK, roles)
}
