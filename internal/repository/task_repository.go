package repository

import (
	"task-manager-backend/internal/domain"

	"gorm.io/gorm"
)

// TaskRepository defines the data operations for tasks.
type TaskRepository interface {
	Create(task *domain.Task) error
	FindByID(id uint) (*domain.Task, error)
	FindByOwner(ownerID uint) ([]domain.Task, error)
	Update(task *domain.Task) error
	Delete(id uint) error
}

type gormTaskRepository struct {
	db *gorm.DB
}

// NewGormTaskRepository creates a GORM-backed task repository.
func NewGormTaskRepository(db *gorm.DB) TaskRepository {
	return &gormTaskRepository{db: db}
}

func (r *gormTaskRepository) Create(task *domain.Task) error {
	return r.db.Create(task).Error
}

func (r *gormTaskRepository) FindByID(id uint) (*domain.Task, error) {
	var task domain.Task
	if result := r.db.First(&task, id); result.Error != nil {
		return nil, result.Error
	}
	return &task, nil
}

// FindByOwner returns the owner's tasks in insertion order.
func (r *gormTaskRepository) FindByOwner(ownerID uint) ([]domain.Task, error) {
	var tasks []domain.Task
	result := r.db.Where("user_id = ?", ownerID).Order("id").Find(&tasks)
	if result.Error != nil {
		return nil, result.Error
	}
	return tasks, nil
}

func (r *gormTaskRepository) Update(task *domain.Task) error {
	return r.db.Save(task).Error
}

// Delete removes the row permanently, bypassing GORM's soft delete.
func (r *gormTaskRepository) Delete(id uint) error {
	return r.db.Unscoped().Delete(&domain.Task{}, id).Error
}
