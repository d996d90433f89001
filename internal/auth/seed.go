package auth

import (
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedUserRoles inserts the three project roles if they are missing.
func SeedUserRoles(db *gorm.DB) {
	roles := []UserRole{
		{RoleName: RoleSuperAdmin, Description: "Project administrator", CanRegister: false},
		{RoleName: RoleReviewer, Description: "Reviews and approves transcriptions", CanRegister: true},
		{RoleName: RoleTranscriber, Description: "Transcribes census schedules", CanRegister: true},
	}

	for _, role := range roles {
		var existing UserRole
		err := db.Where("role_name = ?", role.RoleName).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if err := db.Create(&role).Error; err != nil {
				log.Printf("❌ Failed to seed role %s: %v", role.RoleName, err)
			} else {
				log.Printf("✅ Seeded role: %s", role.RoleName)
			}
		}
	}
}

// SeedSuperAdminUser creates the initial admin account from env vars when no
// superadmin exists yet.
func SeedSuperAdminUser(db *gorm.DB) {
	var role UserRole
	if err := db.Where("role_name = ?", RoleSuperAdmin).First(&role).Error; err != nil {
		log.Printf("❌ Superadmin role missing, cannot seed admin user: %v", err)
		return
	}

	var count int64
	db.Model(&User{}).Where("role_id = ?", role.ID).Count(&count)
	if count > 0 {
		return
	}

	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Println("⚠️ ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping superadmin seed")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Printf("❌ Failed to hash admin password: %v", err)
		return
	}

	user := User{
		FullName:     "Project Admin",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       role.ID,
		Status:       "active",
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("❌ Failed to seed superadmin: %v", err)
		return
	}

	log.Printf("✅ Seeded superadmin user %s", email)
}
