package repository

import (
	"github.com/ntquang/learnhub/internal/model"
	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(course *model.Course) error
	FindByID(id uint) (*model.Course, error)
	FindPublished() ([]model.Course, error)
	FindByIDs(ids []uint) ([]model.Course, error)
	UpdateStatus(id uint, status string) error
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	return r.db.Create(course).Error
}

func (r *courseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.db.First(&course, id).Error
	return &course, err
}

func (r *courseRepository) FindPublished() ([]model.Course, error) {
	var courses []model.Course
	err := r.db.Where("status = ?", model.CoursePublished).Order("created_at DESC").Find(&courses).Error
	return courses, err
}

func (r *courseRepository) FindByIDs(ids []uint) ([]model.Course, error) {
	var courses []model.Course
	if len(ids) == 0 {
		return courses, nil
	}
	err := r.db.Where("id IN ?", ids).Find(&courses).Error
	return courses, err
}

func (r *courseRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&model.Course{}).Where("id = ?", id).Update("status", status).Error
}
