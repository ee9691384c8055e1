package model

import "time"

type UploadStatus string

const (
	StatusPending   UploadStatus = "PENDING"
	StatusApproved  UploadStatus = "APPROVED"
	StatusRejected  UploadStatus = "REJECTED"
	StatusCompleted UploadStatus = "COMPLETED"
)

func (s UploadStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCompleted:
		return true
	}
	return false
}

// Upload is one spreadsheet submission and its review lifecycle.
type Upload struct {
	ID            int64        `json:"upload_id" db:"upload_id"`
	SchoolID      string       `json:"school_id" db:"school_id"`
	FileName      string       `json:"file_name" db:"file_name"`
	FilePath      string       `json:"file_path" db:"file_path"`
	Status        UploadStatus `json:"status" db:"status"`
	UploadedBy    string       `json:"uploaded_by" db:"uploaded_by"`
	UploadedAt    time.Time    `json:"uploaded_at" db:"uploaded_at"`
	ReviewedBy    *string      `json:"reviewed_by,omitempty" db:"reviewed_by"`
	ReviewedAt    *time.Time   `json:"reviewed_at,omitempty" db:"reviewed_at"`
	TotalStudents int          `json:"total_students" db:"total_students"`
	Notes         *string      `json:"notes,omitempty" db:"notes"`
}

// UploadWithSchool is the read-side join used by list/detail views. The
// school fields are a presentation denormalization, not stored on uploads.
type UploadWithSchool struct {
	Upload
	SchoolName     string `json:"school_name" db:"school_name"`
	PrincipalEmail string `json:"principal_email" db:"principal_email"`
	District       string `json:"district" db:"district"`
}
