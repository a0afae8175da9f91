package config

import (
	"gorm.io/gorm"

	"hvacops-backend/models"
)

// SeedSuperAdmin creates the first superadmin when the users table is empty.
// It does nothing when email or password is blank.
func SeedSuperAdmin(db *gorm.DB, email, password string) (bool, error) {
	if email == "" || password == "" {
		return false, nil
	}

	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	user := models.User{Email: email, Password: password, Role: models.RoleSuperAdmin}
	if err := db.Create(&user).Error; err != nil {
		return false, err
	}
	return true, nil
}
