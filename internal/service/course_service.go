package service

import (
	"errors"

	"github.com/jinzhu/copier"
	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type CourseService interface {
	CreateCourse(req dto.CourseCreateDTO) (*dto.CourseSummaryDTO, error)
	PublishCourse(courseID uint) error
	ListPublished() ([]dto.CourseSummaryDTO, error)
}

type courseService struct {
	courseRepo repository.CourseRepository
}

func NewCourseService(courseRepo repository.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) CreateCourse(req dto.CourseCreateDTO) (*dto.CourseSummaryDTO, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		Author:      req.Author,
		Status:      model.CourseDraft,
	}
	if err := s.courseRepo.Create(course); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeCourseNotFound, "a course with this title already exists")
		}
		return nil, apperr.Internal("failed to create course", err)
	}
	log.Info().Uint("courseID", course.ID).Str("title", course.Title).Msg("Course created")

	var resp dto.CourseSummaryDTO
	if err := copier.Copy(&resp, course); err != nil {
		return nil, apperr.Internal("failed to map course response", err)
	}
	return &resp, nil
}

func (s *courseService) PublishCourse(courseID uint) error {
	if _, err := s.courseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound(apperr.CodeCourseNotFound, "course not found")
		}
		return apperr.Internal("failed to load course", err)
	}
	if err := s.courseRepo.UpdateStatus(courseID, model.CoursePublished); err != nil {
		return apperr.Internal("failed to publish course", err)
	}
	return nil
}

func (s *courseService) ListPublished() ([]dto.CourseSummaryDTO, error) {
	courses, err := s.courseRepo.FindPublished()
	if err != nil {
		return nil, apperr.Internal("failed to list courses", err)
	}
	var dtos []dto.CourseSummaryDTO
	if err := copier.Copy(&dtos, courses); err != nil {
		return nil, apperr.Internal("failed to map course list", err)
	}
	return dtos, nil
}
