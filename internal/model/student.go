package model

import "time"

// Student is one normalized data row belonging to exactly one upload.
// Name, Class and RollNumber come from alias-tolerant column matching and may
// be empty when the source sheet has no matching column. Responses keeps the
// full original row so later consumers (report rendering) can mine arbitrary
// columns without re-parsing the spreadsheet.
type Student struct {
	ID         int64       `json:"student_id" db:"student_id"`
	UploadID   int64       `json:"upload_id" db:"upload_id"`
	SchoolID   string      `json:"school_id" db:"school_id"`
	Name       string      `json:"student_name" db:"student_name"`
	Class      string      `json:"class" db:"class"`
	RollNumber string      `json:"roll_number" db:"roll_number"`
	Responses  ResponseMap `json:"response_data" db:"response_data"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
