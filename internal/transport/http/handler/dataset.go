package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"vista/internal/app"
	"vista/internal/summary"
	"vista/internal/transport/http/middleware"
	"vista/internal/transport/http/response"
)

type DatasetHandler struct {
	datasetService *app.DatasetService
}

func NewDatasetHandler(datasetService *app.DatasetService) *DatasetHandler {
	return &DatasetHandler{datasetService: datasetService}
}

// Upload accepts a multipart CSV file, processes it, and responds with the
// computed summary. Validation problems with the file come back as 400 with
// the reason; everything else is a generalized 500.
func (h *DatasetHandler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "No file provided")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to process file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to process file")
		return
	}

	userID := c.GetUint(middleware.ContextUserIDKey)
	sum, err := h.datasetService.Upload(c.Request.Context(), userID, fileHeader.Filename, data)
	if err != nil {
		if errors.Is(err, summary.ErrEmptyInput) {
			response.Error(c, http.StatusBadRequest, fmt.Sprintf("Invalid CSV format: %s", err.Error()))
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to process file")
		return
	}

	c.JSON(http.StatusCreated, sum)
}

func (h *DatasetHandler) History(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)

	items, err := h.datasetService.History(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "Failed to load history")
		return
	}

	c.JSON(http.StatusOK, items)
}

// DownloadPDF streams the report for the user's most recent upload.
func (h *DatasetHandler) DownloadPDF(c *gin.Context) {
	userID := c.GetUint(middleware.ContextUserIDKey)
	username := c.GetString(middleware.ContextUsernameKey)

	fileName, pdf, err := h.datasetService.LatestReport(c.Request.Context(), userID, username)
	if err != nil {
		if errors.Is(err, app.ErrNoData) {
			response.Error(c, http.StatusNotFound, "No data found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "Failed to generate PDF")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
