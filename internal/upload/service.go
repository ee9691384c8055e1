package upload

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/db"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/excel"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/storage"
	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultUploader = "school_user"

	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Notifier is the webhook dispatch surface the service needs.
type Notifier interface {
	Send(ctx context.Context, endpoint string, payload interface{}) error
}

// Service owns spreadsheet ingestion: validate, normalize, persist, notify.
// Parse and validation failures abort before any state is created; the
// notification at the end is best-effort and never fails the ingest.
type Service struct {
	repo     db.Repository
	store    storage.Storage
	parser   *excel.Parser
	notifier Notifier
	cfg      *config.Config
	log      zerolog.Logger
}

func NewService(repo db.Repository, store storage.Storage, notifier Notifier, cfg *config.Config) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		parser:   excel.NewParser(),
		notifier: notifier,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

type CreateRequest struct {
	SchoolID   string
	FileName   string
	UploadedBy string
	Data       []byte
}

type CreateResult struct {
	UploadID      int64
	TotalStudents int
	Status        model.UploadStatus
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if req.SchoolID == "" {
		return nil, errors.ValidationError{Field: "school_id", Value: req.SchoolID, Message: "school_id is required"}
	}
	if len(req.Data) == 0 {
		return nil, errors.ValidationError{Field: "file", Value: req.FileName, Message: "no file uploaded"}
	}
	ext := strings.ToLower(filepath.Ext(req.FileName))
	if ext != ".xlsx" && ext != ".xls" {
		return nil, errors.ValidationError{Field: "file", Value: req.FileName, Message: "only Excel files (.xlsx, .xls) are allowed"}
	}

	school, err := s.repo.GetSchool(ctx, req.SchoolID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, errors.ErrSchoolNotFound
	}

	records, err := s.parser.Parse(ctx, req.Data)
	if err != nil {
		return nil, err
	}

	students := make([]model.Student, 0, len(records))
	for _, record := range records {
		students = append(students, excel.ExtractStudent(record))
	}

	// The source file is retained only for uploads that make it past parsing.
	fileKey := storage.SourceKey(uuid.NewString(), req.FileName)
	if err := s.store.Upload(ctx, fileKey, bytes.NewReader(req.Data), contentTypeXLSX); err != nil {
		return nil, err
	}

	uploadedBy := req.UploadedBy
	if uploadedBy == "" {
		uploadedBy = defaultUploader
	}

	uploadID, err := s.repo.CreateUpload(ctx, &model.Upload{
		SchoolID:   req.SchoolID,
		FileName:   req.FileName,
		FilePath:   fileKey,
		UploadedBy: uploadedBy,
	}, students)
	if err != nil {
		return nil, err
	}

	if err := s.notifier.Send(ctx, s.cfg.Webhooks.UploadNotification, model.UploadNotification{
		UploadID:      uploadID,
		SchoolID:      req.SchoolID,
		SchoolName:    school.Name,
		FileName:      req.FileName,
		TotalStudents: len(students),
		AdminEmail:    s.cfg.Webhooks.AdminEmail,
		UploadedAt:    time.Now().UTC(),
	}); err != nil {
		s.log.Warn().Err(err).Int64("upload_id", uploadID).Msg("Upload notification failed")
	}

	s.log.Info().
		Int64("upload_id", uploadID).
		Str("school_id", req.SchoolID).
		Int("total_students", len(students)).
		Msg("Upload ingested")

	return &CreateResult{
		UploadID:      uploadID,
		TotalStudents: len(students),
		Status:        model.StatusPending,
	}, nil
}

// Delete removes the upload and its students, then makes a best-effort sweep
// of the stored source file and any rendered artifact.
func (s *Service) Delete(ctx context.Context, uploadID int64) error {
	u, err := s.repo.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.ErrUploadNotFound
	}

	if err := s.repo.DeleteUpload(ctx, uploadID); err != nil {
		return err
	}

	if u.FilePath != "" {
		if err := s.store.Delete(ctx, u.FilePath); err != nil {
			s.log.Warn().Err(err).Str("key", u.FilePath).Msg("Could not delete source file")
		}
	}
	artifactKey := storage.ArtifactKey(uploadID)
	if err := s.store.Delete(ctx, artifactKey); err != nil {
		s.log.Warn().Err(err).Str("key", artifactKey).Msg("Could not delete report artifact")
	}

	s.log.Info().Int64("upload_id", uploadID).Msg("Upload deleted")
	return nil
}

// BulkDelete deletes each upload that exists and reports how many it removed.
// Missing ids are skipped, not errors.
func (s *Service) BulkDelete(ctx context.Context, uploadIDs []int64) (int, error) {
	deleted := 0
	for _, id := range uploadIDs {
		err := s.Delete(ctx, id)
		if err == errors.ErrUploadNotFound {
			continue
		}
		if err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}
