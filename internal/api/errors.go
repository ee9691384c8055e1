package api

import (
	stderrors "errors"
	"net/http"

	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"

	"github.com/gin-gonic/gin"
)

// writeError maps the error taxonomy onto stable machine-checkable kinds.
// Render failures get their own kind: the approval decision is already
// committed when one surfaces, and the operator retries rendering, not the
// review.
func writeError(c *gin.Context, err error) {
	var validationErr errors.ValidationError
	var renderErr *errors.RenderError

	switch {
	case stderrors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error(), "kind": "validation_error"})
	case stderrors.Is(err, errors.ErrInvalidFileFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file is empty or invalid", "kind": "parse_error"})
	case stderrors.Is(err, errors.ErrEmptyDataset):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Excel file contains no student rows", "kind": "empty_dataset"})
	case stderrors.Is(err, errors.ErrSchoolNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "School not found", "kind": "school_not_found"})
	case stderrors.Is(err, errors.ErrUploadNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Upload not found", "kind": "upload_not_found"})
	case stderrors.Is(err, errors.ErrIllegalTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "Upload is not in a state that permits this action", "kind": "illegal_transition"})
	case stderrors.As(err, &renderErr):
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "Report generation failed; the approval is recorded and rendering will be retried",
			"kind":  "render_failed",
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "kind": "internal_error"})
	}
}
