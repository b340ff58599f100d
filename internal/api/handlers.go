package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/internal/auth"
	"github.com/satriahrh/mockview/internal/videoupload"
	"github.com/satriahrh/mockview/usecase"
)

// maxAudioSize is the provider limit for one transcription upload
const maxAudioSize = 25 * 1024 * 1024

type handlers struct {
	services Services
	logger   *zap.Logger
}

func (h *handlers) transcribe(c echo.Context) error {
	file, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No audio file provided"})
	}
	if file.Size > maxAudioSize {
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "Audio file too large",
			Message: fmt.Sprintf("limit is %d bytes", maxAudioSize),
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No audio file provided"})
	}
	defer src.Close()

	audio, err := io.ReadAll(src)
	if err != nil || len(audio) == 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No audio file provided"})
	}

	mimeType := file.Header.Get(echo.HeaderContentType)
	if mimeType == echo.MIMEOctetStream {
		mimeType = ""
	}

	text, err := h.services.Media.Transcribe(c.Request().Context(), usecase.TranscribeRequest{
		Audio:    audio,
		Filename: file.Filename,
		MimeType: mimeType,
		Language: c.FormValue("language"),
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Transcription failed"})
	}

	return c.JSON(http.StatusOK, TranscribeResponse{Text: text})
}

func (h *handlers) textToSpeech(c echo.Context) error {
	var req TTSRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request format"})
	}

	audio, err := h.services.Media.Synthesize(c.Request().Context(), req.Text, req.Voice)
	if errors.Is(err, usecase.ErrInvalidInput) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Text is required"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "TTS failed"})
	}

	return c.Blob(http.StatusOK, "audio/mpeg", audio)
}

func (h *handlers) createInterview(c echo.Context) error {
	var req CreateInterviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request format"})
	}

	interview, err := h.services.Interviews.CreateInterview(c.Request().Context(), auth.EmailFrom(c), req)
	if err != nil {
		return h.writeError(c, "create interview", err)
	}

	resp, err := newInterviewResponse(interview)
	if err != nil {
		return h.writeError(c, "encode interview", err)
	}
	return c.JSON(http.StatusCreated, resp)
}

func (h *handlers) suggestQuestions(c echo.Context) error {
	var req CreateInterviewRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request format"})
	}

	questions, err := h.services.Interviews.SuggestQuestions(c.Request().Context(), auth.EmailFrom(c), req)
	if err != nil {
		return h.writeError(c, "suggest questions", err)
	}
	return c.JSON(http.StatusOK, SuggestionsResponse{Questions: questions})
}

func (h *handlers) listInterviews(c echo.Context) error {
	filter := entities.InterviewFilter{
		InterviewType: entities.InterviewType(c.QueryParam("type")),
		Difficulty:    entities.Difficulty(c.QueryParam("difficulty")),
		Language:      c.QueryParam("language"),
		Search:        c.QueryParam("q"),
	}

	interviews, err := h.services.Interviews.ListInterviews(c.Request().Context(), auth.EmailFrom(c), filter)
	if err != nil {
		return h.writeError(c, "list interviews", err)
	}

	resp := InterviewListResponse{Interviews: make([]InterviewResponse, 0, len(interviews))}
	for _, interview := range interviews {
		item, err := newInterviewResponse(interview)
		if err != nil {
			return h.writeError(c, "encode interview", err)
		}
		resp.Interviews = append(resp.Interviews, item)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) getInterview(c echo.Context) error {
	interview, err := h.services.Interviews.GetInterview(c.Request().Context(), auth.EmailFrom(c), c.Param("id"))
	if err != nil {
		return h.writeError(c, "get interview", err)
	}

	resp, err := newInterviewResponse(interview)
	if err != nil {
		return h.writeError(c, "encode interview", err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *handlers) deleteInterview(c echo.Context) error {
	if err := h.services.Interviews.DeleteInterview(c.Request().Context(), auth.EmailFrom(c), c.Param("id")); err != nil {
		return h.writeError(c, "delete interview", err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handlers) submitAnswer(c echo.Context) error {
	var req SubmitAnswerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Invalid request format"})
	}

	ctx := c.Request().Context()
	email := auth.EmailFrom(c)
	mockID := c.Param("id")
	if _, err := h.services.Interviews.GetInterview(ctx, email, mockID); err != nil {
		return h.writeError(c, "submit answer", err)
	}

	result, err := h.services.Answers.SubmitAnswer(ctx, email, usecase.SubmitAnswerInput{
		MockID:     mockID,
		Question:   req.Question,
		CorrectAns: req.CorrectAns,
		UserAns:    req.UserAns,
		Language:   req.Language,
		VideoURL:   req.VideoURL,
	})
	if err != nil {
		return h.writeError(c, "submit answer", err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *handlers) listAnswers(c echo.Context) error {
	answers, err := h.services.Answers.ListAnswers(c.Request().Context(), auth.EmailFrom(c), c.Param("id"))
	if err != nil {
		return h.writeError(c, "list answers", err)
	}
	if answers == nil {
		answers = []*entities.UserAnswer{}
	}
	return c.JSON(http.StatusOK, AnswerListResponse{Answers: answers})
}

func (h *handlers) uploadVideo(c echo.Context) error {
	ordinal, err := strconv.Atoi(c.Param("ordinal"))
	if err != nil || ordinal < 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "ordinal must be a non-negative integer"})
	}

	ctx := c.Request().Context()
	mockID := c.Param("id")
	if _, err := h.services.Interviews.GetInterview(ctx, auth.EmailFrom(c), mockID); err != nil {
		return h.writeError(c, "upload video", err)
	}

	// one byte past the limit is enough for the uploader to reject it
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, videoupload.MaxSize+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: "Could not read video"})
	}
	if len(data) == 0 {
		return c.JSON(http.StatusOK, VideoResponse{})
	}

	blob := &entities.Blob{Data: data, MimeType: c.Request().Header.Get(echo.HeaderContentType)}
	return c.JSON(http.StatusOK, VideoResponse{URL: h.services.Videos.Upload(ctx, blob, mockID, ordinal)})
}

// writeError maps use case errors onto status codes
func (h *handlers) writeError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
	case errors.Is(err, usecase.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_request", Message: err.Error()})
	case errors.Is(err, usecase.ErrInterviewNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not_found", Message: err.Error()})
	case errors.Is(err, usecase.ErrInvalidAIResponse):
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: "invalid_ai_response", Message: err.Error()})
	default:
		h.logger.Error("Request failed", zap.String("op", op), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal_error", Message: "Something went wrong"})
	}
}
