package model

import "time"

// RenderJob queues an artifact regeneration for an approved upload whose
// synchronous render failed.
type RenderJob struct {
	UploadID int64 `json:"upload_id"`
}

type ReviewRequest struct {
	UploadID   int64  `json:"upload_id" binding:"required"`
	Status     string `json:"status" binding:"required"`
	ReviewedBy string `json:"reviewed_by"`
	Notes      string `json:"notes"`
}

type CompleteRequest struct {
	UploadID int64 `json:"upload_id" binding:"required"`
}

type BulkDeleteRequest struct {
	UploadIDs []int64 `json:"upload_ids" binding:"required"`
}

type UploadResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	UploadID      int64  `json:"upload_id"`
	TotalStudents int    `json:"total_students"`
	Status        string `json:"status"`
}

// UploadNotification is the webhook payload fired after a successful ingest.
type UploadNotification struct {
	UploadID      int64     `json:"upload_id"`
	SchoolID      string    `json:"school_id"`
	SchoolName    string    `json:"school_name"`
	FileName      string    `json:"file_name"`
	TotalStudents int       `json:"total_students"`
	AdminEmail    string    `json:"admin_email"`
	UploadedAt    time.Time `json:"uploaded_at"`
}

// ApprovalNotification is the webhook payload fired after approval, once the
// artifact exists. PDFURL points at the stored report keyed by upload id.
type ApprovalNotification struct {
	UploadID       int64     `json:"upload_id"`
	SchoolID       string    `json:"school_id"`
	SchoolName     string    `json:"school_name"`
	PrincipalEmail string    `json:"principal_email"`
	District       string    `json:"district"`
	TotalStudents  int       `json:"total_students"`
	FileName       string    `json:"file_name"`
	ApprovedAt     time.Time `json:"approved_at"`
	PDFURL         string    `json:"pdf_url"`
	PDFName        string    `json:"pdf_name"`
}
