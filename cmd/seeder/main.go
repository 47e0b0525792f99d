package main

import (
	"log"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/config"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/seeds"
)

func main() {
	config.LoadConfig()
	database.Connect()

	log.Println("🔄 Running migrations (just in case)...")
	if err := database.DB.AutoMigrate(&models.User{}, &models.Message{}); err != nil {
		log.Fatalf("❌ Failed to migrate: %v", err)
	}

	announcer, err := seeds.GetOrCreateAnnouncer()
	if err != nil {
		log.Fatalf("❌ Failed to seed announcements user: %v", err)
	}

	if _, err := seeds.SeedDemoStudents(); err != nil {
		log.Fatalf("❌ Failed to seed demo students: %v", err)
	}

	if err := seeds.SeedBoardWelcome(announcer); err != nil {
		log.Fatalf("❌ Failed to seed board: %v", err)
	}

	log.Println("✅ Database Seeding Complete!")
}
