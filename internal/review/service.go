package review

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/db"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/logger"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/report"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/storage"
	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"

	"github.com/rs/zerolog"
)

const (
	defaultReviewer = "admin"
	automationActor = "n8n-automation"
)

type Notifier interface {
	Send(ctx context.Context, endpoint string, payload interface{}) error
}

// RenderQueuer hands failed renders to the out-of-band recovery channel.
type RenderQueuer interface {
	EnqueueRenderJob(ctx context.Context, job model.RenderJob) error
}

// Service is the review state machine: PENDING -> APPROVED | REJECTED, and
// APPROVED -> COMPLETED once the automation confirms delivery. Transitions go
// through the store's check-and-set, so an illegal transition never mutates.
type Service struct {
	repo     db.Repository
	store    storage.Storage
	renderer report.Renderer
	notifier Notifier
	queue    RenderQueuer
	cfg      *config.Config
	log      zerolog.Logger
}

func NewService(
	repo db.Repository,
	store storage.Storage,
	renderer report.Renderer,
	notifier Notifier,
	queue RenderQueuer,
	cfg *config.Config,
) *Service {
	return &Service{
		repo:     repo,
		store:    store,
		renderer: renderer,
		notifier: notifier,
		queue:    queue,
		cfg:      cfg,
		log:      logger.Get(),
	}
}

// Approve commits the decision first, then renders and notifies. A render
// failure leaves the upload APPROVED: the decision is a fact even when
// fulfillment has to be retried. The failed render is queued for recovery and
// surfaced to the caller as a RenderError.
func (s *Service) Approve(ctx context.Context, uploadID int64, reviewer, notes string) error {
	u, err := s.repo.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.ErrUploadNotFound
	}

	if reviewer == "" {
		reviewer = defaultReviewer
	}
	if err := s.repo.UpdateStatusIf(ctx, uploadID, model.StatusPending, model.StatusApproved, reviewer, optional(notes)); err != nil {
		return err
	}

	s.log.Info().Int64("upload_id", uploadID).Str("reviewed_by", reviewer).Msg("Upload approved")

	if err := s.renderAndNotify(ctx, uploadID); err != nil {
		if s.queue != nil {
			if qErr := s.queue.EnqueueRenderJob(ctx, model.RenderJob{UploadID: uploadID}); qErr != nil {
				s.log.Error().Err(qErr).Int64("upload_id", uploadID).Msg("Failed to queue render retry")
			}
		}
		return errors.NewRenderError(uploadID, err)
	}

	return nil
}

// Reject is legal only from PENDING. No rendering, no approval notification.
func (s *Service) Reject(ctx context.Context, uploadID int64, reviewer, notes string) error {
	u, err := s.repo.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.ErrUploadNotFound
	}

	if reviewer == "" {
		reviewer = defaultReviewer
	}
	if err := s.repo.UpdateStatusIf(ctx, uploadID, model.StatusPending, model.StatusRejected, reviewer, optional(notes)); err != nil {
		return err
	}

	s.log.Info().Int64("upload_id", uploadID).Str("reviewed_by", reviewer).Msg("Upload rejected")
	return nil
}

// Complete is called by the external automation once the report has been
// delivered. Guarded here, not in the ledger: only APPROVED uploads complete.
func (s *Service) Complete(ctx context.Context, uploadID int64) error {
	u, err := s.repo.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.ErrUploadNotFound
	}

	if err := s.repo.UpdateStatusIf(ctx, uploadID, model.StatusApproved, model.StatusCompleted, automationActor, nil); err != nil {
		return err
	}

	s.log.Info().Int64("upload_id", uploadID).Msg("Upload completed")
	return nil
}

// RenderAndNotify regenerates the artifact for an already-approved upload and
// re-sends the approval notification. Used by the render retry worker.
func (s *Service) RenderAndNotify(ctx context.Context, uploadID int64) error {
	u, err := s.repo.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	if u == nil {
		return errors.ErrUploadNotFound
	}
	if u.Status != model.StatusApproved {
		return fmt.Errorf("%w: upload %d is %s, not %s",
			errors.ErrIllegalTransition, uploadID, u.Status, model.StatusApproved)
	}
	if err := s.renderAndNotify(ctx, uploadID); err != nil {
		return errors.NewRenderError(uploadID, err)
	}
	return nil
}

func (s *Service) renderAndNotify(ctx context.Context, uploadID int64) error {
	u, err := s.repo.GetUpload(ctx, uploadID)
	if err != nil {
		return err
	}
	students, err := s.repo.GetStudents(ctx, uploadID)
	if err != nil {
		return err
	}

	data := report.BuildData(u, students)
	pdf, err := s.renderer.Render(ctx, data)
	if err != nil {
		return err
	}

	artifactKey := storage.ArtifactKey(uploadID)
	if err := s.store.Upload(ctx, artifactKey, bytes.NewReader(pdf), "application/pdf"); err != nil {
		return fmt.Errorf("failed to persist artifact: %w", err)
	}

	s.log.Info().Int64("upload_id", uploadID).Str("key", artifactKey).Msg("Report artifact stored")

	if err := s.notifier.Send(ctx, s.cfg.Webhooks.ApprovalTrigger, model.ApprovalNotification{
		UploadID:       uploadID,
		SchoolID:       u.SchoolID,
		SchoolName:     u.SchoolName,
		PrincipalEmail: u.PrincipalEmail,
		District:       u.District,
		TotalStudents:  u.TotalStudents,
		FileName:       u.FileName,
		ApprovedAt:     time.Now().UTC(),
		PDFURL:         fmt.Sprintf("%s/api/report/%d", s.cfg.App.BaseURL, uploadID),
		PDFName:        storage.ArtifactName(uploadID),
	}); err != nil {
		s.log.Warn().Err(err).Int64("upload_id", uploadID).Msg("Approval notification failed")
	}

	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
