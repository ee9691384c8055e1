package errors

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidFileFormat = errors.New("invalid file format")
	ErrEmptyDataset      = errors.New("spreadsheet contains no usable rows")
	ErrSchoolNotFound    = errors.New("school not found")
	ErrUploadNotFound    = errors.New("upload not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}

// RenderError marks a failed artifact generation. By the time it surfaces the
// approval decision is already committed; callers retry rendering out of band,
// never the approval itself.
type RenderError struct {
	UploadID int64
	Err      error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("report rendering failed for upload %d: %s", e.UploadID, e.Err.Error())
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func NewRenderError(uploadID int64, err error) error {
	return &RenderError{UploadID: uploadID, Err: err}
}
