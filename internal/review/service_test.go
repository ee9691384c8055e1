package review

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/config"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/internal/report"
	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"
)

type fakeRepo struct {
	uploads  map[int64]*model.UploadWithSchool
	students map[int64][]model.Student
}

func newFakeRepo(uploads ...*model.UploadWithSchool) *fakeRepo {
	r := &fakeRepo{
		uploads:  map[int64]*model.UploadWithSchool{},
		students: map[int64][]model.Student{},
	}
	for _, u := range uploads {
		r.uploads[u.ID] = u
	}
	return r
}

func (r *fakeRepo) CreateSchool(ctx context.Context, school *model.School) error { return nil }
func (r *fakeRepo) GetSchool(ctx context.Context, id string) (*model.School, error) {
	return nil, nil
}
func (r *fakeRepo) ListSchools(ctx context.Context) ([]model.School, error) { return nil, nil }

func (r *fakeRepo) CreateUpload(ctx context.Context, u *model.Upload, students []model.Student) (int64, error) {
	return 0, nil
}

func (r *fakeRepo) GetUpload(ctx context.Context, id int64) (*model.UploadWithSchool, error) {
	return r.uploads[id], nil
}

func (r *fakeRepo) ListUploads(ctx context.Context) ([]model.UploadWithSchool, error) {
	return nil, nil
}

func (r *fakeRepo) GetStudents(ctx context.Context, id int64) ([]model.Student, error) {
	return r.students[id], nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id int64, status model.UploadStatus, reviewedBy string) error {
	u, ok := r.uploads[id]
	if !ok {
		return errors.ErrUploadNotFound
	}
	u.Status = status
	u.ReviewedBy = &reviewedBy
	return nil
}

func (r *fakeRepo) UpdateStatusIf(ctx context.Context, id int64, expected, next model.UploadStatus, reviewedBy string, notes *string) error {
	u, ok := r.uploads[id]
	if !ok || u.Status != expected {
		return errors.ErrIllegalTransition
	}
	u.Status = next
	u.ReviewedBy = &reviewedBy
	now := time.Now()
	u.ReviewedAt = &now
	if notes != nil {
		u.Notes = notes
	}
	return nil
}

func (r *fakeRepo) DeleteUpload(ctx context.Context, id int64) error {
	if _, ok := r.uploads[id]; !ok {
		return errors.ErrUploadNotFound
	}
	delete(r.uploads, id)
	return nil
}

type fakeStorage struct {
	objects map[string][]byte
	failPut bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: map[string][]byte{}}
}

func (s *fakeStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("no such key: %s", key)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (s *fakeStorage) Upload(ctx context.Context, key string, data io.Reader, contentType string) error {
	if s.failPut {
		return fmt.Errorf("storage unavailable")
	}
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	s.objects[key] = b
	return nil
}

func (s *fakeStorage) Delete(ctx context.Context, key string) error {
	delete(s.objects, key)
	return nil
}

func (s *fakeStorage) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := s.objects[key]
	return ok, nil
}

type fakeRenderer struct {
	fail  bool
	calls int
}

func (r *fakeRenderer) Render(ctx context.Context, data report.Data) ([]byte, error) {
	r.calls++
	if r.fail {
		return nil, fmt.Errorf("renderer unavailable")
	}
	return []byte("%PDF-1.4 fake"), nil
}

type fakeNotifier struct {
	endpoints []string
	payloads  []interface{}
	err       error
}

func (n *fakeNotifier) Send(ctx context.Context, endpoint string, payload interface{}) error {
	n.endpoints = append(n.endpoints, endpoint)
	n.payloads = append(n.payloads, payload)
	return n.err
}

type fakeQueue struct {
	jobs []model.RenderJob
}

func (q *fakeQueue) EnqueueRenderJob(ctx context.Context, job model.RenderJob) error {
	q.jobs = append(q.jobs, job)
	return nil
}

func pendingUpload(id int64) *model.UploadWithSchool {
	return &model.UploadWithSchool{
		Upload: model.Upload{
			ID:            id,
			SchoolID:      "SCH001",
			FileName:      "results.xlsx",
			Status:        model.StatusPending,
			TotalStudents: 2,
			UploadedAt:    time.Now(),
		},
		SchoolName:     "Green Valley High School",
		PrincipalEmail: "principal@greenvalley.edu",
		District:       "North District",
	}
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.BaseURL = "http://localhost:3000"
	cfg.Webhooks.ApprovalTrigger = "http://automation/approval"
	return cfg
}

func TestApprove(t *testing.T) {
	repo := newFakeRepo(pendingUpload(1))
	store := newFakeStorage()
	renderer := &fakeRenderer{}
	notifier := &fakeNotifier{}
	queue := &fakeQueue{}
	svc := NewService(repo, store, renderer, notifier, queue, testConfig())

	if err := svc.Approve(context.Background(), 1, "admin", ""); err != nil {
		t.Fatalf("Approve() error = %v", err)
	}

	if got := repo.uploads[1].Status; got != model.StatusApproved {
		t.Errorf("status = %s, want APPROVED", got)
	}
	if renderer.calls != 1 {
		t.Errorf("renderer calls = %d, want 1", renderer.calls)
	}
	if _, ok := store.objects["reports/report_1.pdf"]; !ok {
		t.Error("artifact was not persisted at reports/report_1.pdf")
	}
	if len(notifier.payloads) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifier.payloads))
	}
	payload, ok := notifier.payloads[0].(model.ApprovalNotification)
	if !ok {
		t.Fatalf("payload type = %T, want ApprovalNotification", notifier.payloads[0])
	}
	if payload.PDFURL != "http://localhost:3000/api/report/1" {
		t.Errorf("PDFURL = %q", payload.PDFURL)
	}
	if len(queue.jobs) != 0 {
		t.Errorf("render jobs queued = %d, want 0", len(queue.jobs))
	}
}

func TestApproveIllegalTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status model.UploadStatus
	}{
		{"already approved", model.StatusApproved},
		{"already rejected", model.StatusRejected},
		{"already completed", model.StatusCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := pendingUpload(1)
			u.Status = tt.status
			repo := newFakeRepo(u)
			renderer := &fakeRenderer{}
			svc := NewService(repo, newFakeStorage(), renderer, &fakeNotifier{}, &fakeQueue{}, testConfig())

			err := svc.Approve(context.Background(), 1, "admin", "")
			if !stderrors.Is(err, errors.ErrIllegalTransition) {
				t.Fatalf("Approve() error = %v, want ErrIllegalTransition", err)
			}
			if repo.uploads[1].Status != tt.status {
				t.Errorf("status mutated to %s, want unchanged %s", repo.uploads[1].Status, tt.status)
			}
			if renderer.calls != 0 {
				t.Errorf("renderer was called on an illegal transition")
			}
		})
	}
}

func TestApproveRenderFailure(t *testing.T) {
	repo := newFakeRepo(pendingUpload(1))
	renderer := &fakeRenderer{fail: true}
	notifier := &fakeNotifier{}
	queue := &fakeQueue{}
	svc := NewService(repo, newFakeStorage(), renderer, notifier, queue, testConfig())

	err := svc.Approve(context.Background(), 1, "admin", "")

	var renderErr *errors.RenderError
	if !stderrors.As(err, &renderErr) {
		t.Fatalf("Approve() error = %v, want *RenderError", err)
	}
	// The decision survives the failed render.
	if repo.uploads[1].Status != model.StatusApproved {
		t.Errorf("status = %s, want APPROVED despite render failure", repo.uploads[1].Status)
	}
	if len(queue.jobs) != 1 || queue.jobs[0].UploadID != 1 {
		t.Errorf("render retry jobs = %+v, want one for upload 1", queue.jobs)
	}
	if len(notifier.payloads) != 0 {
		t.Errorf("approval notification sent despite render failure")
	}
}

func TestApproveArtifactPersistFailure(t *testing.T) {
	repo := newFakeRepo(pendingUpload(1))
	store := newFakeStorage()
	store.failPut = true
	queue := &fakeQueue{}
	svc := NewService(repo, store, &fakeRenderer{}, &fakeNotifier{}, queue, testConfig())

	err := svc.Approve(context.Background(), 1, "admin", "")

	var renderErr *errors.RenderError
	if !stderrors.As(err, &renderErr) {
		t.Fatalf("Approve() error = %v, want *RenderError", err)
	}
	if repo.uploads[1].Status != model.StatusApproved {
		t.Errorf("status = %s, want APPROVED despite persist failure", repo.uploads[1].Status)
	}
	if len(queue.jobs) != 1 {
		t.Errorf("render retry jobs = %+v, want one", queue.jobs)
	}
}

func TestApproveNotFound(t *testing.T) {
	svc := NewService(newFakeRepo(), newFakeStorage(), &fakeRenderer{}, &fakeNotifier{}, &fakeQueue{}, testConfig())

	err := svc.Approve(context.Background(), 99, "admin", "")
	if !stderrors.Is(err, errors.ErrUploadNotFound) {
		t.Errorf("Approve() error = %v, want ErrUploadNotFound", err)
	}
}

func TestApproveSwallowsNotificationFailure(t *testing.T) {
	repo := newFakeRepo(pendingUpload(1))
	notifier := &fakeNotifier{err: fmt.Errorf("automation unreachable")}
	svc := NewService(repo, newFakeStorage(), &fakeRenderer{}, notifier, &fakeQueue{}, testConfig())

	if err := svc.Approve(context.Background(), 1, "admin", ""); err != nil {
		t.Fatalf("Approve() error = %v, want nil when only the notification fails", err)
	}
	if repo.uploads[1].Status != model.StatusApproved {
		t.Errorf("status = %s, want APPROVED", repo.uploads[1].Status)
	}
}

func TestReject(t *testing.T) {
	repo := newFakeRepo(pendingUpload(1))
	renderer := &fakeRenderer{}
	notifier := &fakeNotifier{}
	svc := NewService(repo, newFakeStorage(), renderer, notifier, &fakeQueue{}, testConfig())

	if err := svc.Reject(context.Background(), 1, "admin", "bad data"); err != nil {
		t.Fatalf("Reject() error = %v", err)
	}

	if repo.uploads[1].Status != model.StatusRejected {
		t.Errorf("status = %s, want REJECTED", repo.uploads[1].Status)
	}
	if repo.uploads[1].Notes == nil || *repo.uploads[1].Notes != "bad data" {
		t.Errorf("notes not recorded")
	}
	if renderer.calls != 0 {
		t.Error("rejection must not render")
	}
	if len(notifier.payloads) != 0 {
		t.Error("rejection must not notify")
	}
}

func TestComplete(t *testing.T) {
	tests := []struct {
		name    string
		status  model.UploadStatus
		wantErr error
		want    model.UploadStatus
	}{
		{"from approved", model.StatusApproved, nil, model.StatusCompleted},
		{"from pending", model.StatusPending, errors.ErrIllegalTransition, model.StatusPending},
		{"from rejected", model.StatusRejected, errors.ErrIllegalTransition, model.StatusRejected},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := pendingUpload(1)
			u.Status = tt.status
			repo := newFakeRepo(u)
			svc := NewService(repo, newFakeStorage(), &fakeRenderer{}, &fakeNotifier{}, &fakeQueue{}, testConfig())

			err := svc.Complete(context.Background(), 1)
			if !stderrors.Is(err, tt.wantErr) {
				t.Fatalf("Complete() error = %v, want %v", err, tt.wantErr)
			}
			if repo.uploads[1].Status != tt.want {
				t.Errorf("status = %s, want %s", repo.uploads[1].Status, tt.want)
			}
		})
	}
}

func TestRenderAndNotifyRequiresApproved(t *testing.T) {
	repo := newFakeRepo(pendingUpload(1))
	svc := NewService(repo, newFakeStorage(), &fakeRenderer{}, &fakeNotifier{}, nil, testConfig())

	err := svc.RenderAndNotify(context.Background(), 1)
	if !stderrors.Is(err, errors.ErrIllegalTransition) {
		t.Errorf("RenderAndNotify() error = %v, want ErrIllegalTransition", err)
	}
}

func TestRenderAndNotifyRegenerates(t *testing.T) {
	u := pendingUpload(1)
	u.Status = model.StatusApproved
	repo := newFakeRepo(u)
	store := newFakeStorage()
	notifier := &fakeNotifier{}
	svc := NewService(repo, store, &fakeRenderer{}, notifier, nil, testConfig())

	if err := svc.RenderAndNotify(context.Background(), 1); err != nil {
		t.Fatalf("RenderAndNotify() error = %v", err)
	}
	if _, ok := store.objects["reports/report_1.pdf"]; !ok {
		t.Error("artifact was not regenerated")
	}
	if len(notifier.payloads) != 1 {
		t.Errorf("notifications = %d, want 1", len(notifier.payloads))
	}
}
