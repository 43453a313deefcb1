package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ntquang/learnhub/internal/apperr"
	"github.com/ntquang/learnhub/internal/dto"
	"github.com/ntquang/learnhub/internal/middleware"
	"github.com/ntquang/learnhub/internal/service"
	"github.com/rs/zerolog/log"
)

type QuizController struct {
	quizService    service.QuizService
	attemptService service.AttemptService
	gradingService service.GradingService
}

func NewQuizController(
	quizService service.QuizService,
	attemptService service.AttemptService,
	gradingService service.GradingService,
) *QuizController {
	return &QuizController{
		quizService:    quizService,
		attemptService: attemptService,
		gradingService: gradingService,
	}
}

// GetQuiz godoc
// @Summary (Student) Get a published quiz without answer flags
// @Tags Student - Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizDetailDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid quiz ID or quiz not published"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Security BearerAuth
// @Router /quizzes/{quiz_id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	quizID, ok := parseID(ctx, "quiz_id")
	if !ok {
		return
	}
	detail, err := c.quizService.GetQuizForStudent(middleware.UserID(ctx), quizID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, detail)
}

// StartAttempt godoc
// @Summary (Student) Start or resume a quiz attempt
// @Description Returns the existing in-progress attempt when one is still inside its time window; otherwise creates a fresh attempt. Stale timed attempts are expired on the way through.
// @Tags Student - Quizzes
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.AttemptHandleDTO
// @Failure 400 {object} dto.ErrorResponse "Quiz unavailable, already passed, or attempt budget exhausted"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Failure 409 {object} dto.ErrorResponse "Concurrent start detected, retry to resume"
// @Security BearerAuth
// @Router /quizzes/{quiz_id}/start [post]
func (c *QuizController) StartAttempt(ctx *gin.Context) {
	quizID, ok := parseID(ctx, "quiz_id")
	if !ok {
		return
	}
	studentID := middleware.UserID(ctx)

	handle, err := c.attemptService.StartOrResumeAttempt(studentID, quizID)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Uint("studentID", studentID).Msg("StartAttempt rejected")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, handle)
}

// SubmitAttempt godoc
// @Summary (Student) Submit answers for the in-progress attempt
// @Description Grades the submission, persists the answers, and on a passing score completes the enrollment and issues a certificate.
// @Tags Student - Quizzes
// @Accept json
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param body body dto.QuizSubmitDTO true "Submitted answers"
// @Success 200 {object} dto.GradedResultDTO
// @Failure 400 {object} dto.ErrorResponse "No attempt in progress, attempt expired, or quiz unavailable"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled"
// @Security BearerAuth
// @Router /quizzes/{quiz_id}/submit [post]
func (c *QuizController) SubmitAttempt(ctx *gin.Context) {
	quizID, ok := parseID(ctx, "quiz_id")
	if !ok {
		return
	}
	studentID := middleware.UserID(ctx)

	var req dto.QuizSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body", Details: []string{err.Error()}})
		return
	}
	if len(req.Answers) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "submission must contain at least one answer"})
		return
	}

	result, err := c.gradingService.Grade(studentID, quizID, req)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", quizID).Uint("studentID", studentID).Msg("SubmitAttempt rejected")
		respondError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func parseID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

func respondError(ctx *gin.Context, err error) {
	ctx.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{Error: err.Error(), Code: apperr.CodeOf(err)})
}
