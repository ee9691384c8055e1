package api

import (
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/db"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/report"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/review"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/storage"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/upload"
	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type Handler struct {
	repo    db.Repository
	uploads *upload.Service
	reviews *review.Service
	store   storage.Storage
	cfg     *config.Config
	log     zerolog.Logger
}

func NewHandler(
	repo db.Repository,
	uploads *upload.Service,
	reviews *review.Service,
	store storage.Storage,
	cfg *config.Config,
) *Handler {
	return &Handler{
		repo:    repo,
		uploads: uploads,
		reviews: reviews,
		store:   store,
		cfg:     cfg,
		log:     logger.Get(),
	}
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": h.cfg.App.Name,
		"version": h.cfg.App.Version,
	})
}

func (h *Handler) UploadFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "kind": "validation_error"})
		return
	}
	if fileHeader.Size > h.cfg.Uploads.MaxFileSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large", "kind": "validation_error"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(c, err)
		return
	}

	result, err := h.uploads.Create(c.Request.Context(), upload.CreateRequest{
		SchoolID:   c.PostForm("school_id"),
		FileName:   fileHeader.Filename,
		UploadedBy: c.PostForm("uploaded_by"),
		Data:       data,
	})
	if err != nil {
		h.log.Error().Err(err).Str("file_name", fileHeader.Filename).Msg("Upload failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.UploadResponse{
		Success:       true,
		Message:       "File uploaded successfully",
		UploadID:      result.UploadID,
		TotalStudents: result.TotalStudents,
		Status:        string(result.Status),
	})
}

func (h *Handler) ListUploads(c *gin.Context) {
	uploads, err := h.repo.ListUploads(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list uploads")
		writeError(c, err)
		return
	}
	if uploads == nil {
		uploads = []model.UploadWithSchool{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "uploads": uploads})
}

func (h *Handler) GetUpload(c *gin.Context) {
	uploadID, ok := h.uploadID(c)
	if !ok {
		return
	}

	u, err := h.repo.GetUpload(c.Request.Context(), uploadID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		writeError(c, errors.ErrUploadNotFound)
		return
	}

	students, err := h.repo.GetStudents(c.Request.Context(), uploadID)
	if err != nil {
		writeError(c, err)
		return
	}
	if students == nil {
		students = []model.Student{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "upload": u, "students": students})
}

func (h *Handler) DeleteUpload(c *gin.Context) {
	uploadID, ok := h.uploadID(c)
	if !ok {
		return
	}

	if err := h.uploads.Delete(c.Request.Context(), uploadID); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Upload and students data deleted successfully"})
}

func (h *Handler) BulkDeleteUploads(c *gin.Context) {
	var req model.BulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.UploadIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload_ids array is required", "kind": "validation_error"})
		return
	}

	deleted, err := h.uploads.BulkDelete(c.Request.Context(), req.UploadIDs)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": strconv.Itoa(deleted) + " uploads deleted successfully",
		"deleted": deleted,
	})
}

func (h *Handler) ReviewUpload(c *gin.Context) {
	var req model.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload_id and status are required", "kind": "validation_error"})
		return
	}

	var err error
	switch model.UploadStatus(req.Status) {
	case model.StatusApproved:
		err = h.reviews.Approve(c.Request.Context(), req.UploadID, req.ReviewedBy, req.Notes)
	case model.StatusRejected:
		err = h.reviews.Reject(c.Request.Context(), req.UploadID, req.ReviewedBy, req.Notes)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be APPROVED or REJECTED", "kind": "validation_error"})
		return
	}
	if err != nil {
		h.log.Error().Err(err).Int64("upload_id", req.UploadID).Str("status", req.Status).Msg("Review failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Upload " + strings.ToLower(req.Status) + " successfully",
		"upload_id": req.UploadID,
		"status":    req.Status,
	})
}

func (h *Handler) CompleteUpload(c *gin.Context) {
	var req model.CompleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload_id is required", "kind": "validation_error"})
		return
	}

	if err := h.reviews.Complete(c.Request.Context(), req.UploadID); err != nil {
		h.log.Error().Err(err).Int64("upload_id", req.UploadID).Msg("Complete failed")
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Upload status updated to COMPLETED"})
}

func (h *Handler) ReportData(c *gin.Context) {
	uploadID, ok := h.uploadID(c)
	if !ok {
		return
	}

	u, err := h.repo.GetUpload(c.Request.Context(), uploadID)
	if err != nil {
		writeError(c, err)
		return
	}
	if u == nil {
		writeError(c, errors.ErrUploadNotFound)
		return
	}

	students, err := h.repo.GetStudents(c.Request.Context(), uploadID)
	if err != nil {
		writeError(c, err)
		return
	}

	data := report.BuildData(u, students)
	c.JSON(http.StatusOK, gin.H{
		"success":               true,
		"school_name":           data.SchoolName,
		"district":              data.District,
		"total_students":        data.TotalStudents,
		"report_date":           data.ReportDate,
		"participation_percent": data.Participation,
		"class_averages":        data.Averages,
		"students":              data.Students,
	})
}

// GetReport streams the stored artifact for an upload.
func (h *Handler) GetReport(c *gin.Context) {
	uploadID, ok := h.uploadID(c)
	if !ok {
		return
	}

	key := storage.ArtifactKey(uploadID)
	body, err := h.store.Download(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Report not found", "kind": "artifact_not_found"})
		return
	}
	defer body.Close()

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", `attachment; filename="`+storage.ArtifactName(uploadID)+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.log.Error().Err(err).Int64("upload_id", uploadID).Msg("Failed to stream report")
	}
}

func (h *Handler) ListSchools(c *gin.Context) {
	schools, err := h.repo.ListSchools(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if schools == nil {
		schools = []model.School{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "schools": schools})
}

func (h *Handler) CreateSchool(c *gin.Context) {
	var school model.School
	if err := c.ShouldBindJSON(&school); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "kind": "validation_error"})
		return
	}
	if school.ID == "" || school.Name == "" || school.PrincipalEmail == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "school_id, school_name and principal_email are required",
			"kind":  "validation_error",
		})
		return
	}

	if err := h.repo.CreateSchool(c.Request.Context(), &school); err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "school_id": school.ID})
}

func (h *Handler) uploadID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid upload ID", "kind": "validation_error"})
		return 0, false
	}
	return id, true
}
