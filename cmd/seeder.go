package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		sqlxDB, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}

		db, err := initGorm(sqlxDB)
		if err != nil {
			log.Fatalf("failed to init orm: %v", err)
		}

		if clearData {
			for _, table := range []string{"system_notifications", "replies", "attachments", "requests", "news", "candidate_achievements", "candidate_profile", "user_roles", "profiles", "password_resets", "users", "request_types", "areas"} {
				if err := db.Exec("DELETE FROM " + table).Error; err != nil {
					log.Fatalf("failed to clear table %s: %v", table, err)
				}
			}
			fmt.Println("Cleared existing data")
		}

		seedAreas(db)
		seedRequestTypes(db)
		seedUsers(db, cfg.Security.BCryptCost)

		fmt.Println("Seeding complete")
	},
}

func seedAreas(db *gorm.DB) {
	areas := []string{
		"الدائرة الأولى",
		"الدائرة الثانية",
		"الدائرة الثالثة",
		"الدائرة الرابعة",
	}

	for _, name := range areas {
		var exists int
		if err := db.Raw("SELECT 1 FROM areas WHERE name = ?", name).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO areas (name, is_active, created_at, updated_at) VALUES (?, true, now(), now())", name).Error; err != nil {
			log.Fatalf("failed to insert area %s: %v", name, err)
		}
		fmt.Printf("Seeded area: %s\n", name)
	}
}

func seedRequestTypes(db *gorm.DB) {
	types := []string{
		"صحة",
		"تعليم",
		"طرق وبنية تحتية",
		"خدمات اجتماعية",
		"توظيف",
		"أخرى",
	}

	for _, name := range types {
		var exists int
		if err := db.Raw("SELECT 1 FROM request_types WHERE name = ?", name).Row().Scan(&exists); err == nil {
			continue
		}
		if err := db.Exec("INSERT INTO request_types (name, is_active, created_at, updated_at) VALUES (?, true, now(), now())", name).Error; err != nil {
			log.Fatalf("failed to insert request type %s: %v", name, err)
		}
		fmt.Printf("Seeded request type: %s\n", name)
	}
}

func seedUsers(db *gorm.DB, bcryptCost int) {
	password := "password"
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)

	seedUserWithRole(db, "admin@portal.local", "Portal Admin", string(hash), "admin", nil)

	var areaID int64
	if err := db.Raw("SELECT id FROM areas ORDER BY id LIMIT 1").Row().Scan(&areaID); err == nil {
		seedUserWithRole(db, "staff@portal.local", "Office Staff", string(hash), "staff", &areaID)
	}

	seedUserWithRole(db, "candidate@portal.local", "The Candidate", string(hash), "candidate", nil)
}

func seedUserWithRole(db *gorm.DB, email, name, passwordHash, role string, areaID *int64) {
	var userID int64
	err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&userID)
	if err != nil {
		if err := db.Exec("INSERT INTO users (email, name, password_hash, is_active, created_at, updated_at) VALUES (?, ?, ?, true, now(), now())", email, name, passwordHash).Error; err != nil {
			log.Fatalf("failed to insert user %s: %v", email, err)
		}
		if err := db.Raw("SELECT id FROM users WHERE email = ?", email).Row().Scan(&userID); err != nil {
			log.Fatalf("failed to lookup user id for %s: %v", email, err)
		}
		fmt.Printf("Seeded user: %s\n", email)
	}

	var exists int
	if err := db.Raw("SELECT 1 FROM user_roles WHERE user_id = ?", userID).Row().Scan(&exists); err == nil {
		return
	}
	if err := db.Exec("INSERT INTO user_roles (user_id, role, assigned_area_id, created_at, updated_at) VALUES (?, ?, ?, now(), now())", userID, role, areaID).Error; err != nil {
		log.Fatalf("failed to assign role %s to %s: %v", role, email, err)
	}
	fmt.Printf("Assigned role %s to %s\n", role, email)
}
