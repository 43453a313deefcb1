package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	courseService service.CourseService
	quizService   service.QuizService
}

func NewAdminController(courseService service.CourseService, quizService service.QuizService) *AdminController {
	return &AdminController{courseService: courseService, quizService: quizService}
}

// CreateCourse godoc
// @Summary (Admin) Create a new course in DRAFT
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.CourseCreateDTO true "Course data"
// @Success 201 {object} dto.CourseSummaryDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 409 {object} dto.ErrorResponse "Duplicate course title"
// @Security BearerAuth
// @Router /admin/courses [post]
func (c *AdminController) CreateCourse(ctx *gin.Context) {
	var req dto.CourseCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateCourse: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}
	course, err := c.courseService.CreateCourse(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, course)
}

// PublishCourse godoc
// @Summary (Admin) Publish a course, opening it for enrollment
// @Tags Admin
// @Param course_id path int true "Course ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /admin/courses/{course_id}/publish [post]
func (c *AdminController) PublishCourse(ctx *gin.Context) {
	courseID, ok := parseID(ctx, "course_id")
	if !ok {
		return
	}
	if err := c.courseService.PublishCourse(courseID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// CreateQuiz godoc
// @Summary (Admin) Create a quiz with its questions and options
// @Description Multiple-choice questions must carry exactly one correct option; the quiz starts in DRAFT.
// @Tags Admin
// @Accept json
// @Produce json
// @Param body body dto.QuizCreateDTO true "Quiz data including questions"
// @Success 201 {object} dto.QuizDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid body or malformed answer key"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Security BearerAuth
// @Router /admin/quizzes [post]
func (c *AdminController) CreateQuiz(ctx *gin.Context) {
	var req dto.QuizCreateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CreateQuiz: failed to bind request")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}
	quiz, err := c.quizService.CreateQuiz(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, quiz)
}

// PublishQuiz godoc
// @Summary (Admin) Publish a quiz, making it attemptable
// @Tags Admin
// @Param quiz_id path int true "Quiz ID"
// @Success 204 "No Content"
// @Failure 400 {object} dto.ErrorResponse "Quiz has no questions"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /admin/quizzes/{quiz_id}/publish [post]
func (c *AdminController) PublishQuiz(ctx *gin.Context) {
	quizID, ok := parseID(ctx, "quiz_id")
	if !ok {
		return
	}
	if err := c.quizService.PublishQuiz(quizID); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

func respondError(ctx *gin.Context, err error) {
	ctx.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{Error: err.Error(), Code: apperr.CodeOf(err)})
}
