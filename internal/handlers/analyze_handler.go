package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"cvmatch/cv-matcher/internal/services"
)

// ProfileTextFetcher is the best-effort profile extraction contract:
// any failure yields an empty string, never an error.
type ProfileTextFetcher interface {
	FetchProfileText(ctx context.Context, url string) string
}

type AnalyzeHandler struct {
	extractor services.ExtractorService
	fetcher   ProfileTextFetcher
	analyzer  services.AnalyzerService
	logger    *zap.Logger
}

func NewAnalyzeHandler(
	extractor services.ExtractorService,
	fetcher ProfileTextFetcher,
	analyzer services.AnalyzerService,
	logger *zap.Logger,
) *AnalyzeHandler {
	return &AnalyzeHandler{
		extractor: extractor,
		fetcher:   fetcher,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// HandleAnalyze handles POST /analyze: it extracts text from the
// uploaded CV and/or the profile URL, aggregates the sources, and runs
// the model analysis.
func (h *AnalyzeHandler) HandleAnalyze(c *fiber.Ctx) error {
	requestID := uuid.New().String()
	c.Set("X-Request-ID", requestID)
	log := h.logger.With(zap.String("request_id", requestID))

	jobDescription := strings.TrimSpace(c.FormValue("job_description"))
	if jobDescription == "" {
		return fiber.NewError(fiber.StatusBadRequest, "job_description is required")
	}

	cvFile, err := c.FormFile("cv_file")
	if err != nil {
		// No file part; the profile URL may still carry the request.
		cvFile = nil
	}
	linkedinURL := strings.TrimSpace(c.FormValue("linkedin_url"))

	if cvFile == nil && linkedinURL == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload a CV or provide a LinkedIn URL.")
	}

	var sources []services.LabeledText

	if cvFile != nil {
		format, err := services.FormatForFilename(cvFile.Filename)
		if err != nil {
			return statusError(err)
		}

		payload, err := readUpload(cvFile)
		if err != nil {
			log.Error("failed to read uploaded file", zap.String("filename", cvFile.Filename), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "failed to read uploaded file")
		}

		text, err := h.extractor.ExtractText(payload, format)
		if err != nil {
			log.Error("document extraction failed", zap.String("format", string(format)), zap.Error(err))
			return statusError(err)
		}
		if strings.TrimSpace(text) != "" {
			sources = append(sources, services.LabeledText{Label: "CV Document", Text: text})
		}
	}

	if linkedinURL != "" {
		if text := h.fetcher.FetchProfileText(c.UserContext(), linkedinURL); strings.TrimSpace(text) != "" {
			sources = append(sources, services.LabeledText{Label: "LinkedIn Profile", Text: text})
		}
	}

	corpus, err := services.CombineSources(sources)
	if err != nil {
		return statusError(err)
	}

	result, err := h.analyzer.Analyze(c.UserContext(), corpus, jobDescription)
	if err != nil {
		log.Error("analysis failed", zap.Error(err))
		return statusError(err)
	}

	log.Info("analysis completed",
		zap.Int("match_percentage", result.MatchPercentage),
		zap.Int("sources", len(sources)),
	)

	return c.JSON(result)
}

// statusError maps the core error taxonomy to HTTP statuses: caller
// mistakes are 400s, everything else is a 500 with its message.
func statusError(err error) error {
	var validationErr *services.ValidationError
	if errors.As(err, &validationErr) {
		return fiber.NewError(fiber.StatusBadRequest, validationErr.Message)
	}
	return fiber.NewError(fiber.StatusInternalServerError, err.Error())
}

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	return io.ReadAll(src)
}
