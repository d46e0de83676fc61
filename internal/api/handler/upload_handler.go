package handler

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Michelc16/catalogo-online/internal/api/metrics"
	"github.com/Michelc16/catalogo-online/internal/core/domain"
	"github.com/Michelc16/catalogo-online/internal/core/ports"
)

// UploadHandler is the single multipart ingestion endpoint. It dispatches
// on file extension: .csv goes to the bulk import pipeline, anything on
// the image allow-list goes to the image ingestor.
type UploadHandler struct {
	importer ports.ImportService
	images   ports.ImageService
}

func NewUploadHandler(importer ports.ImportService, images ports.ImageService) *UploadHandler {
	return &UploadHandler{importer: importer, images: images}
}

type importResponse struct {
	Message  string                 `json:"message"`
	Imported int                    `json:"imported"`
	Failures []domain.ImportFailure `json:"failures,omitempty"`
}

type imageResponse struct {
	Filename string `json:"filename"`
	Message  string `json:"message"`
}

// Upload handles POST /api/upload. Admin only.
//
// @Summary      Upload a CSV of products or a single image
// @Tags         catalog
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "CSV or image file"
// @Success      200   {object}  importResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/upload [post]
func (h *UploadHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "no file uploaded")
	}
	if fh.Filename == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "no file selected")
	}

	src, err := fh.Open()
	if err != nil {
		return &domain.ProcessingError{Op: "open upload", Err: err}
	}
	defer src.Close()

	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fh.Filename), "."))
	if ext == "csv" {
		return h.importCSV(c, src)
	}
	return h.ingestImage(c, src, fh.Filename)
}

func (h *UploadHandler) importCSV(c echo.Context, src io.Reader) error {
	start := time.Now()
	summary, err := h.importer.ImportProducts(c.Request().Context(), src)
	if err != nil {
		return err
	}
	metrics.ImportDuration.Observe(time.Since(start).Seconds())
	metrics.ImportRowsTotal.WithLabelValues("persisted").Add(float64(summary.Persisted))
	metrics.ImportRowsTotal.WithLabelValues("rejected").Add(float64(len(summary.Failures)))
	metrics.UploadsTotal.WithLabelValues("csv").Inc()

	return c.JSON(http.StatusOK, importResponse{
		Message:  fmt.Sprintf("%d products imported", summary.Persisted),
		Imported: summary.Persisted,
		Failures: summary.Failures,
	})
}

func (h *UploadHandler) ingestImage(c echo.Context, src io.Reader, filename string) error {
	start := time.Now()
	stored, err := h.images.Ingest(c.Request().Context(), src, filename)
	if err != nil {
		return err
	}
	metrics.ImageProcessingDuration.Observe(time.Since(start).Seconds())
	metrics.UploadsTotal.WithLabelValues("image").Inc()

	return c.JSON(http.StatusOK, imageResponse{
		Filename: stored,
		Message:  "image uploaded",
	})
}
