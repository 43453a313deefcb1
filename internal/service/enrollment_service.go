package service

import (
	"errors"

	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/model"
	"github.com/ntquang/learnhub/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type EnrollmentService interface {
	Enroll(studentID, courseID uint) (*dto.EnrollmentDTO, error)
	MyEnrollments(studentID uint) ([]dto.EnrollmentDTO, error)
}

type enrollmentService struct {
	enrollmentRepo repository.EnrollmentRepository
	courseRepo     repository.CourseRepository
}

func NewEnrollmentService(
	enrollmentRepo repository.EnrollmentRepository,
	courseRepo repository.CourseRepository,
) EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
	}
}

func (s *enrollmentService) Enroll(studentID, courseID uint) (*dto.EnrollmentDTO, error) {
	course, err := s.courseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound(apperr.CodeCourseNotFound, "course not found")
		}
		return nil, apperr.Internal("failed to load course", err)
	}
	if course.Status != model.CoursePublished {
		return nil, apperr.InvalidState(apperr.CodeCourseNotFound, "course is not open for enrollment")
	}

	enrollment := &model.Enrollment{
		StudentID: studentID,
		CourseID:  courseID,
		Status:    model.EnrollmentActive,
	}
	if err := s.enrollmentRepo.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict(apperr.CodeAlreadyEnrolled, "already enrolled in this course")
		}
		return nil, apperr.Internal("failed to create enrollment", err)
	}
	log.Info().Uint("studentID", studentID).Uint("courseID", courseID).Msg("Student enrolled")

	return &dto.EnrollmentDTO{
		ID:                 enrollment.ID,
		CourseID:           courseID,
		CourseTitle:        course.Title,
		Status:             enrollment.Status,
		ProgressPercentage: enrollment.ProgressPercentage,
		EnrolledAt:         enrollment.CreatedAt,
	}, nil
}

func (s *enrollmentService) MyEnrollments(studentID uint) ([]dto.EnrollmentDTO, error) {
	enrollments, err := s.enrollmentRepo.FindByStudent(studentID)
	if err != nil {
		return nil, apperr.Internal("failed to list enrollments", err)
	}

	courseIDs := make([]uint, 0, len(enrollments))
	for _, e := range enrollments {
		courseIDs = append(courseIDs, e.CourseID)
	}
	courses, err := s.courseRepo.FindByIDs(courseIDs)
	if err != nil {
		return nil, apperr.Internal("failed to load courses", err)
	}
	titles := make(map[uint]string, len(courses))
	for _, c := range courses {
		titles[c.ID] = c.Title
	}

	dtos := make([]dto.EnrollmentDTO, 0, len(enrollments))
	for _, e := range enrollments {
		dtos = append(dtos, dto.EnrollmentDTO{
			ID:                 e.ID,
			CourseID:           e.CourseID,
			CourseTitle:        titles[e.CourseID],
			Status:             e.Status,
			ProgressPercentage: e.ProgressPercentage,
			CompletedAt:        e.CompletedAt,
			EnrolledAt:         e.CreatedAt,
		})
	}
	return dtos, nil
}
