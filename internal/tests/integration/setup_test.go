package integration

import (
	"fmt"
	"testing"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/config"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/middleware"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/routes"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/logger"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/pkg/utils"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) {
	config.AppConfig = &config.Config{
		JWTSecret:   "test_secret_key_12345",
		FrontendURL: "http://localhost:5173",
	}
	logger.Init("test")

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	database.DB = db
}

// setupRouter wires the API the way cmd/server does, minus Redis.
func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.ErrorHandlerMiddleware())

	api := r.Group("/api")
	routes.RegisterAuthRoutes(api.Group("/auth"))
	routes.RegisterChatRoutes(api)
	routes.RegisterBoardRoutes(api)

	return r
}

func createTestUser(t *testing.T, regNo string) string {
	passHash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	user := models.User{
		ID:       regNo,
		Name:     regNo + " Test",
		Email:    regNo + "@test.com",
		Password: string(passHash),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", regNo, err)
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}
