package seeds

import (
	"log"

	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/database"
	"github.com/RUTHVIKMATURU/campus-connect-sub000/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// GetOrCreateAnnouncer returns the official announcements account, creating it
// if it does not exist. Board seed posts are authored by this user.
func GetOrCreateAnnouncer() (models.User, error) {
	log.Println("👤 Checking Announcements User...")

	regNo := "CAMPUS-OFFICIAL"

	var user models.User
	err := database.DB.Where("id = ?", regNo).First(&user).Error
	if err == nil {
		log.Printf("   ✅ Announcements user found: %s", user.ID)
		return user, nil
	}

	hash, _ := bcrypt.GenerateFromPassword([]byte("CampusConnect2026!"), bcrypt.DefaultCost)

	user = models.User{
		ID:       regNo,
		Name:     "Campus Connect Team",
		Email:    "official@campusconnect.dev",
		Password: string(hash),
		Role:     models.RoleAdmin,
		Branch:   "ADMIN",
		Year:     0,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}

	log.Printf("   ✅ Announcements user created: %s", user.ID)
	return user, nil
}

// SeedDemoStudents creates a handful of students and seniors for local
// development. Existing registration numbers are left untouched.
func SeedDemoStudents() ([]models.User, error) {
	log.Println("🎓 Seeding demo students...")

	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	demo := []models.User{
		{ID: "22B81A0501", Name: "Ananya Rao", Email: "ananya@campusconnect.dev", Branch: "CSE", Year: 2, Role: models.RoleStudent},
		{ID: "22B81A0502", Name: "Rahul Verma", Email: "rahul@campusconnect.dev", Branch: "CSE", Year: 2, Role: models.RoleStudent},
		{ID: "21B81A0401", Name: "Sneha Iyer", Email: "sneha@campusconnect.dev", Branch: "ECE", Year: 3, Role: models.RoleSenior},
		{ID: "20B81A0301", Name: "Vikram Das", Email: "vikram@campusconnect.dev", Branch: "MECH", Year: 4, Role: models.RoleSenior},
	}

	created := make([]models.User, 0, len(demo))
	for _, u := range demo {
		var existing models.User
		if err := database.DB.Where("id = ?", u.ID).First(&existing).Error; err == nil {
			created = append(created, existing)
			continue
		}

		u.Password = string(hash)
		if err := database.DB.Create(&u).Error; err != nil {
			return nil, err
		}
		log.Printf("   ✅ Created %s (%s)", u.Name, u.ID)
		created = append(created, u)
	}

	return created, nil
}
