package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"hotel-backoffice/models"
	"hotel-backoffice/services"
	"hotel-backoffice/utils"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
	RoleID   *uint  `json:"roleId,omitempty"`
}

type UserController struct {
	Users *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{Users: svc}
}

// POST /api/users
func (ctrl *UserController) CreateUser(c *gin.Context) {
	var payload CreateUserRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONErrorDetails(c, http.StatusBadRequest, "error.invalidPayload",
			"fullName, email and a password of at least 8 characters are required", err.Error())
		return
	}

	user := models.User{
		FullName: payload.FullName,
		Email:    payload.Email,
		Phone:    payload.Phone,
		RoleID:   payload.RoleID,
	}
	if err := ctrl.Users.Create(&user, payload.Password); err != nil {
		if isDuplicateKeyError(err) {
			utils.JSONError(c, http.StatusConflict, "error.emailTaken",
				"a user with this email already exists")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to create user")
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, user)
}

// GET /api/users
func (ctrl *UserController) GetUsers(c *gin.Context) {
	users, err := ctrl.Users.GetAll()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to list users")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

// GET /api/users/:id
func (ctrl *UserController) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "error.invalidId", "user id must be numeric")
		return
	}

	user, uerr := ctrl.Users.GetByID(uint(id))
	if uerr != nil {
		if errors.Is(uerr, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "error.notFound", "user not found")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "error.internal", "failed to load user")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}
