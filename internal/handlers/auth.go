package handlers

import (
	"net/http"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	apperrors "github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/errors"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/logger"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// Thin credential collaborator for the messaging core: registration and
// login exist so that every chat endpoint can demand a valid bearer
// token. OAuth and password-reset flows are out of scope.

type RegisterInput struct {
	RegNo    string `json:"regNo" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Branch   string `json:"branch"`
	Year     int    `json:"year"`
}

type LoginInput struct {
	RegNo    string `json:"regNo" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateRegNo(input.RegNo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Registration number must be 3-30 characters and contain only letters, numbers, underscores, or hyphens"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to hash password")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	user := models.User{
		ID:       input.RegNo,
		Name:     input.Name,
		Email:    input.Email,
		Branch:   input.Branch,
		Year:     input.Year,
		Password: string(hashedPassword),
	}

	if result := database.DB.Create(&user); result.Error != nil {
		var existing models.User
		if err := database.DB.Where("email = ?", input.Email).First(&existing).Error; err == nil {
			abortWith(c, apperrors.Conflict("An account with this email already exists. Please sign in instead."))
			return
		}
		abortWith(c, apperrors.Conflict("An account with this registration number already exists"))
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token, "user": user})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", input.RegNo).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid registration number or password"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid registration number or password"})
		return
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
