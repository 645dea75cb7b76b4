package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
)

// isDuplicateKeyError detects a unique-index violation from the MySQL
// driver, with a string fallback for the SQLite test database.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	var merr *mysql.MySQLError
	if errors.As(err, &merr) {
		return merr.Number == 1062
	}
	lower := strings.ToLower(err.Error())
	return strings.Contains(lower, "duplicate entry") || strings.Contains(lower, "unique constraint")
}

// RoomController goes through RoomService rather than hitting the database
// directly: room updates must invalidate the cached nightly price.
type RoomController struct {
	Rooms *services.RoomService
}

func NewRoomController(svc *services.RoomService) *RoomController {
	return &RoomController{Rooms: svc}
}

// GET /api/rooms
func (ctrl *RoomController) GetRooms(c *gin.Context) {
	rooms, err := ctrl.Rooms.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to list rooms")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, rooms)
}

// POST /api/rooms
func (ctrl *RoomController) CreateRoom(c *gin.Context) {
	var room models.Room
	if err := c.ShouldBindJSON(&room); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"invalid room payload", err.Error())
		return
	}

	room.RoomNumber = strings.TrimSpace(room.RoomNumber)
	if room.RoomNumber == "" {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "room number is required")
		return
	}
	if room.Status == "" {
		room.Status = models.RoomStatusAvailable
	}

	if room.RoomCategoryID != nil {
		var cat models.RoomCategory
		if err := ctrl.Rooms.DB.First(&cat, *room.RoomCategoryID).Error; err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidReference", "invalid roomCategoryId provided")
			return
		}
	}
	if room.HotelID != nil {
		var h models.Hotel
		if err := ctrl.Rooms.DB.First(&h, *room.HotelID).Error; err != nil {
			utils.JSONError(c, http.StatusBadRequest, "error.invalidReference", "invalid hotelId provided")
			return
		}
	}

	if err := ctrl.Rooms.Create(&room); err != nil {
		if isDuplicateKeyError(err) {
			utils.JSONError(c, http.StatusConflict, "error.duplicate",
				fmt.Sprintf("room number %q already exists", room.RoomNumber))
			return
		}
		utils.JSONErrorDetails(c, http.StatusInternalServerError, "error.internal",
			"failed to create room", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, room)
}

// PATCH /api/rooms/:id
func (ctrl *RoomController) UpdateRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var updateData map[string]interface{}
	if err := c.ShouldBindJSON(&updateData); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"invalid update payload", err.Error())
		return
	}

	// Immutable bookkeeping fields; room status belongs to the
	// reservation engine, not the admin dashboard.
	delete(updateData, "id")
	delete(updateData, "created_at")
	delete(updateData, "updated_at")
	delete(updateData, "deleted_at")
	delete(updateData, "status")

	if err := ctrl.Rooms.Update(c.Request.Context(), id, updateData); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, "error.notFound", "room not found")
			return
		}
		utils.JSONErrorDetails(c, http.StatusInternalServerError, "error.internal",
			"failed to update room", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room updated"})
}

// DELETE /api/rooms/:id
func (ctrl *RoomController) DeleteRoom(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := ctrl.Rooms.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, services.ErrRoomNotFound) {
			utils.JSONError(c, http.StatusNotFound, "error.notFound", "room not found")
			return
		}
		utils.JSONErrorDetails(c, http.StatusInternalServerError, "error.internal",
			"failed to delete room", err.Error())
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"message": "room deleted"})
}
