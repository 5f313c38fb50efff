package backend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/jo-hoe/barcoderelay/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	mimeJPEG = "image/jpeg"

	messageDecoded   = "Barcode detected and decoded."
	messageNotFound  = "No barcode detected in frame."
	messageCooldown  = "Scan ignored (cooldown active)."
	messageDuplicate = "Barcode already processed recently."
	messageNoImage   = "No image data received"
)

// UploadResponse is returned by the frame upload endpoint
type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    string `json:"data,omitempty"`
	Format  string `json:"format,omitempty"`
}

// DebugResponse describes an uploaded frame without scanning it
type DebugResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Format  string `json:"format,omitempty"`
}

type APIService struct {
	coreService *core.CoreService
	config      *core.ServiceConfig
}

func NewAPIService(config *core.ServiceConfig, coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
		config:      config,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	e.GET(ProbePath, s.probeHandler)

	e.POST("/api/upload_frame", s.uploadFrameHandler)
	e.GET("/result", s.resultHandler)

	if s.config.DebugEndpoint {
		e.POST("/debug", s.debugHandler)
	}
}

func (s *APIService) probeHandler(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "barcode relay is running")
}

func (s *APIService) uploadFrameHandler(ctx echo.Context) error {
	frame, err := readFrame(ctx)
	if err != nil {
		return err
	}

	result, err := s.coreService.ProcessFrame(ctx.Request().Context(), frame)
	if errors.Is(err, core.ErrNoImageData) {
		slog.Warn("uploadFrameHandler: no image data",
			"status", http.StatusBadRequest,
			"content_type", ctx.Request().Header.Get(echo.HeaderContentType))
		return ctx.JSON(http.StatusBadRequest, UploadResponse{Message: messageNoImage})
	}
	if err != nil {
		slog.Error("uploadFrameHandler: failed to process frame",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, UploadResponse{Message: err.Error()})
	}

	switch result.Outcome {
	case core.OutcomeDecoded:
		return ctx.JSON(http.StatusOK, UploadResponse{
			Success: true,
			Message: messageDecoded,
			Data:    result.Detection.Text,
			Format:  string(result.Detection.Format),
		})
	case core.OutcomeThrottled:
		return ctx.JSON(http.StatusAccepted, UploadResponse{Message: messageCooldown})
	case core.OutcomeDuplicate:
		return ctx.JSON(http.StatusAccepted, UploadResponse{Message: messageDuplicate})
	default:
		return ctx.JSON(http.StatusOK, UploadResponse{Message: messageNotFound})
	}
}

func (s *APIService) resultHandler(ctx echo.Context) error {
	ctx.Response().Header().Set("Cache-Control", "no-store")
	return ctx.JSON(http.StatusOK, s.coreService.LatestResult())
}

func (s *APIService) debugHandler(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return bodyReadError(err)
	}

	info, err := s.coreService.InspectFrame(body)
	if errors.Is(err, core.ErrNoImageData) {
		return ctx.JSON(http.StatusBadRequest, DebugResponse{Message: messageNoImage})
	}
	if err != nil {
		slog.Warn("debugHandler: failed to decode image",
			"status", http.StatusBadRequest, "error", err, "size", len(body))
		return ctx.JSON(http.StatusBadRequest, DebugResponse{Message: "Failed to decode image"})
	}

	slog.Debug("debugHandler: image decoded",
		"width", info.Width, "height", info.Height, "format", info.Format)
	return ctx.JSON(http.StatusOK, DebugResponse{
		Success: true,
		Message: fmt.Sprintf("Image decoded successfully: %dx%d %s", info.Width, info.Height, info.Format),
		Width:   info.Width,
		Height:  info.Height,
		Format:  info.Format,
	})
}

// readFrame returns the JPEG body; a body sent with another content type counts as no image data
func readFrame(ctx echo.Context) ([]byte, error) {
	mediaType, _, err := mime.ParseMediaType(ctx.Request().Header.Get(echo.HeaderContentType))
	if err != nil || mediaType != mimeJPEG {
		return nil, nil
	}
	frame, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return nil, bodyReadError(err)
	}
	return frame, nil
}

// bodyReadError keeps the 413 raised by the body limit middleware while the body is streamed
func bodyReadError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	slog.Error("failed to read request body", "status", http.StatusBadRequest, "error", err)
	return echo.NewHTTPError(http.StatusBadRequest, "failed to read request body")
}
