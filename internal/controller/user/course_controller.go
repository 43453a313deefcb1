package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ntquang/learnhub/internal/middleware"
	"github.com/ntquang/learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

type CourseController struct {
	courseService      service.CourseService
	enrollmentService  service.EnrollmentService
	certificateService service.CertificateService
}

func NewCourseController(
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
	certificateService service.CertificateService,
) *CourseController {
	return &CourseController{
		courseService:      courseService,
		enrollmentService:  enrollmentService,
		certificateService: certificateService,
	}
}

// ListCourses godoc
// @Summary List published courses
// @Tags Student - Courses
// @Produce json
// @Success 200 {array} dto.CourseSummaryDTO
// @Failure 500 {object} dto.ErrorResponse
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.courseService.ListPublished()
	if err != nil {
		log.Error().Err(err).Msg("ListCourses failed")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, courses)
}

// Enroll godoc
// @Summary (Student) Enroll in a published course
// @Tags Student - Courses
// @Produce json
// @Param course_id path int true "Course ID"
// @Success 201 {object} dto.EnrollmentDTO
// @Failure 400 {object} dto.ErrorResponse "Course not open for enrollment"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Security BearerAuth
// @Router /courses/{course_id}/enroll [post]
func (c *CourseController) Enroll(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "course_id")
	if !ok {
		return
	}
	enrollment, err := c.enrollmentService.Enroll(middleware.UserID(ctx), courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, enrollment)
}

// MyEnrollments godoc
// @Summary (Student) List my enrollments with course metadata
// @Tags Student - Courses
// @Produce json
// @Success 200 {array} dto.EnrollmentDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /me/enrollments [get]
func (c *CourseController) MyEnrollments(ctx *gin.Context) {
	enrollments, err := c.enrollmentService.MyEnrollments(middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, enrollments)
}

// MyCertificates godoc
// @Summary (Student) List my course completion certificates
// @Tags Student - Courses
// @Produce json
// @Success 200 {array} dto.CertificateDTO
// @Failure 500 {object} dto.ErrorResponse
// @Security BearerAuth
// @Router /me/certificates [get]
func (c *CourseController) MyCertificates(ctx *gin.Context) {
	certificates, err := c.certificateService.MyCertificates(middleware.UserID(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, certificates)
}
