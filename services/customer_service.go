package services

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"hvacops-backend/models"
	"hvacops-backend/utils"
)

type CustomerService struct {
	db  *gorm.DB
	log *logrus.Logger
}

func NewCustomerService(db *gorm.DB, log *logrus.Logger) *CustomerService {
	return &CustomerService{db: db, log: log}
}

type CustomerInput struct {
	Name         string
	Email        string
	Phone        string
	Address      string
	DrawingURL   *string
	QuotationURL *string
}

// CustomerPatch carries only the fields being changed
type CustomerPatch struct {
	Name         *string
	Email        *string
	Phone        *string
	Address      *string
	DrawingURL   *string
	QuotationURL *string
}

// List returns customers newest first, filtered by a name, email or phone substring
func (s *CustomerService) List(ctx context.Context, search string) ([]models.Customer, error) {
	q := s.db.WithContext(ctx).Model(&models.Customer{})
	if search = strings.TrimSpace(search); search != "" {
		term := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", term, term, term)
	}

	var customers []models.Customer
	if err := q.Order("created_at DESC").Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound("customer", err)
	}
	return &customer, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	customer := models.Customer{
		Name:         strings.TrimSpace(in.Name),
		Email:        utils.NormalizeEmail(in.Email),
		Phone:        strings.TrimSpace(in.Phone),
		Address:      in.Address,
		DrawingURL:   in.DrawingURL,
		QuotationURL: in.QuotationURL,
	}
	if err := validateCustomer(&customer); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

func (s *CustomerService) Update(ctx context.Context, id uuid.UUID, patch CustomerPatch) (*models.Customer, error) {
	customer, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		customer.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		customer.Email = utils.NormalizeEmail(*patch.Email)
	}
	if patch.Phone != nil {
		customer.Phone = strings.TrimSpace(*patch.Phone)
	}
	if patch.Address != nil {
		customer.Address = *patch.Address
	}
	if patch.DrawingURL != nil {
		customer.DrawingURL = patch.DrawingURL
	}
	if patch.QuotationURL != nil {
		customer.QuotationURL = patch.QuotationURL
	}
	if err := validateCustomer(customer); err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Save(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete removes the customer together with every job, phase and payment under it
func (s *CustomerService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Customer{}, "id = ?", id).Error; err != nil {
			return notFound("customer", err)
		}

		var jobIDs []uuid.UUID
		if err := tx.Model(&models.Job{}).Where("customer_id = ?", id).Pluck("id", &jobIDs).Error; err != nil {
			return err
		}
		if err := deleteJobs(tx, jobIDs); err != nil {
			return err
		}
		if err := tx.Where("id = ?", id).Delete(&models.Customer{}).Error; err != nil {
			return err
		}

		s.log.WithFields(logrus.Fields{"customer_id": id, "jobs": len(jobIDs)}).Info("customer deleted")
		return nil
	})
}

func validateCustomer(c *models.Customer) error {
	if c.Name == "" {
		return validationError("name is required")
	}
	if c.Email == "" {
		return validationError("email is required")
	}
	if c.Phone != "" && !utils.ValidatePhone(c.Phone) {
		return validationError("Invalid phone number format")
	}
	return nil
}
