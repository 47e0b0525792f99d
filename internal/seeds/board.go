package seeds

import (
	"log"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/store"
)

// SeedBoardWelcome posts a welcome announcement to the community board if the
// board is empty. Goes through store.Append so it obeys the same validation as
// a live post.
func SeedBoardWelcome(announcer models.User) error {
	log.Println("📢 Seeding board welcome post...")

	var count int64
	if err := database.DB.Model(&models.Message{}).Where("receiver_id IS NULL").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("   ✅ Board already has posts, skipping")
		return nil
	}

	welcome := models.Message{
		SenderID: announcer.ID,
		Body:     "Welcome to the Campus Connect community board! Introduce yourself, ask seniors anything, and keep discussions respectful.",
	}
	if err := store.Append(&welcome); err != nil {
		return err
	}

	log.Println("   ✅ Welcome post created")
	return nil
}
