package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"hvacops-backend/services"
	"hvacops-backend/utils"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type CreateUserInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required"`
}

// AuthController handles login and staff accounts
type AuthController struct {
	Users *services.UserService
	Log   *logrus.Logger
}

func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	token, user, err := ac.Users.Login(c.Request.Context(), input.Email, input.Password)
	if err != nil {
		respondError(c, ac.Log, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (ac *AuthController) Me(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}

	user, err := ac.Users.Get(c.Request.Context(), caller.UserID)
	if err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":        user.ID,
			"email":     user.Email,
			"role":      user.Role,
			"lastLogin": user.LastLogin,
		},
	})
}

func (ac *AuthController) ListUsers(c *gin.Context) {
	users, err := ac.Users.List(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err, "Failed to retrieve users")
		return
	}
	c.JSON(http.StatusOK, users)
}

func (ac *AuthController) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	user, err := ac.Users.Create(c.Request.Context(), input.Email, input.Password, input.Role)
	if err != nil {
		respondError(c, ac.Log, err, "Failed to create user")
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (ac *AuthController) DeleteUser(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "user")
	if !ok {
		return
	}

	if err := ac.Users.Delete(c.Request.Context(), caller, id); err != nil {
		respondError(c, ac.Log, err, "Failed to delete user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

func (ac *AuthController) Technicians(c *gin.Context) {
	emails, err := ac.Users.Technicians(c.Request.Context())
	if err != nil {
		respondError(c, ac.Log, err, "Failed to retrieve technicians")
		return
	}
	c.JSON(http.StatusOK, emails)
}
