package repository

import (
	"task-manager-backend/internal/domain"

	"gorm.io/gorm"
)

// UserRepository defines the data operations for user accounts. There is no
// delete or credential rotation; accounts are provisioned out of band.
type UserRepository interface {
	FindByUsername(username string) (*domain.User, error)
	Create(user *domain.User) error
}

type gormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a GORM-backed user repository.
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &gormUserRepository{db: db}
}

func (r *gormUserRepository) FindByUsername(username string) (*domain.User, error) {
	var user domain.User
	if result := r.db.Where("username = ?", username).First(&user); result.Error != nil {
		return nil, result.Error
	}
	return &user, nil
}

func (r *gormUserRepository) Create(user *domain.User) error {
	return r.db.Create(user).Error
}
