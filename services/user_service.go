package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hvacops-backend/models"
	"hvacops-backend/utils"
)

// UserService owns staff accounts and token issue
type UserService struct {
	db        *gorm.DB
	log       *logrus.Logger
	jwtSecret string
	jwtExpiry time.Duration
	now       func() time.Time
}

func NewUserService(db *gorm.DB, log *logrus.Logger, jwtSecret string, jwtExpiry time.Duration) *UserService {
	return &UserService{db: db, log: log, jwtSecret: jwtSecret, jwtExpiry: jwtExpiry, now: time.Now}
}

// Login checks the credentials and returns a signed token for the user
func (s *UserService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	db := s.db.WithContext(ctx)

	var user models.User
	if err := db.Where("email = ?", utils.NormalizeEmail(email)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil, ErrUnauthorized
		}
		return "", nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return "", nil, ErrUnauthorized
	}

	token, err := utils.GenerateToken(s.jwtSecret, s.jwtExpiry, user.ID.String(), user.Email, string(user.Role))
	if err != nil {
		return "", nil, err
	}

	now := s.now()
	if err := db.Model(&user).Update("last_login", &now).Error; err != nil {
		s.log.WithError(err).WithField("user_id", user.ID).Warn("failed to record last login")
	}
	user.LastLogin = &now
	return token, &user, nil
}

func (s *UserService) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, notFound("user", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Create adds a staff account. Role is matched case-insensitively.
func (s *UserService) Create(ctx context.Context, email, password, role string) (*models.User, error) {
	r, ok := models.ParseRole(role)
	if !ok {
		return nil, validationError("Invalid role: %s", role)
	}
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, validationError("email and password are required")
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrConflict
	}

	user := models.User{Email: email, Password: password, Role: r}
	if err := db.Create(&user).Error; err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("user created")
	return &user, nil
}

func (s *UserService) Delete(ctx context.Context, caller Caller, id uuid.UUID) error {
	if caller.UserID == id {
		return validationError("You cannot delete your own account.")
	}

	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound("user", gorm.ErrRecordNotFound)
	}
	return nil
}

// Technicians lists the emails jobs can be assigned to
func (s *UserService) Technicians(ctx context.Context) ([]string, error) {
	var emails []string
	err := s.db.WithContext(ctx).Model(&models.User{}).
		Where("role = ?", models.RoleTechnician).
		Order("email ASC").
		Pluck("email", &emails).Error
	return emails, err
}
