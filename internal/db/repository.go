package db

import (
	"context"
	"database/sql"

	"github.com/Chinnu-7/automation-Principal-reportcard/internal/model"
	"github.com/Chinnu-7/automation-Principal-reportcard/pkg/errors"
)

// Repository is the relational ledger. It stores and reads; transition
// legality lives in the review service, except for the atomic check-and-set
// offered by UpdateStatusIf.
type Repository interface {
	CreateSchool(ctx context.Context, school *model.School) error
	GetSchool(ctx context.Context, schoolID string) (*model.School, error)
	ListSchools(ctx context.Context) ([]model.School, error)

	CreateUpload(ctx context.Context, upload *model.Upload, students []model.Student) (int64, error)
	GetUpload(ctx context.Context, uploadID int64) (*model.UploadWithSchool, error)
	ListUploads(ctx context.Context) ([]model.UploadWithSchool, error)
	GetStudents(ctx context.Context, uploadID int64) ([]model.Student, error)

	UpdateStatus(ctx context.Context, uploadID int64, status model.UploadStatus, reviewedBy string) error
	UpdateStatusIf(ctx context.Context, uploadID int64, expected, next model.UploadStatus, reviewedBy string, notes *string) error

	DeleteUpload(ctx context.Context, uploadID int64) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateSchool(ctx context.Context, school *model.School) error {
	query := `INSERT INTO schools (school_id, school_name, principal_email, district, address, phone)
			  VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		school.ID, school.Name, school.PrincipalEmail, school.District, school.Address, school.Phone)
	return err
}

func (r *repository) GetSchool(ctx context.Context, schoolID string) (*model.School, error) {
	query := `SELECT school_id, school_name, principal_email, district, address, phone, created_at, updated_at
			  FROM schools WHERE school_id = ?`

	var school model.School
	err := r.db.QueryRowContext(ctx, query, schoolID).Scan(
		&school.ID, &school.Name, &school.PrincipalEmail, &school.District,
		&school.Address, &school.Phone, &school.CreatedAt, &school.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &school, nil
}

func (r *repository) ListSchools(ctx context.Context) ([]model.School, error) {
	query := `SELECT school_id, school_name, principal_email, district, address, phone, created_at, updated_at
			  FROM schools ORDER BY school_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var schools []model.School
	for rows.Next() {
		var school model.School
		err := rows.Scan(&school.ID, &school.Name, &school.PrincipalEmail, &school.District,
			&school.Address, &school.Phone, &school.CreatedAt, &school.UpdatedAt)
		if err != nil {
			return nil, err
		}
		schools = append(schools, school)
	}

	return schools, rows.Err()
}

// CreateUpload persists the upload row and all of its student rows in one
// transaction. A reader never observes the upload without its students.
func (r *repository) CreateUpload(ctx context.Context, upload *model.Upload, students []model.Student) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	err = tx.QueryRowContext(ctx, `SELECT 1 FROM schools WHERE school_id = ?`, upload.SchoolID).Scan(&exists)
	if err == sql.ErrNoRows {
		return 0, errors.ErrSchoolNotFound
	}
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO uploads (school_id, file_name, file_path, status, uploaded_by, total_students)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		upload.SchoolID, upload.FileName, upload.FilePath, model.StatusPending,
		upload.UploadedBy, len(students))
	if err != nil {
		return 0, err
	}

	uploadID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, student := range students {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO students (upload_id, school_id, student_name, class, roll_number, response_data)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			uploadID, upload.SchoolID, student.Name, student.Class, student.RollNumber, student.Responses)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return uploadID, nil
}

const uploadJoinSelect = `SELECT u.upload_id, u.school_id, u.file_name, u.file_path, u.status,
		u.uploaded_by, u.uploaded_at, u.reviewed_by, u.reviewed_at, u.total_students, u.notes,
		COALESCE(s.school_name, ''), COALESCE(s.principal_email, ''), COALESCE(s.district, '')
	FROM uploads u
	LEFT JOIN schools s ON u.school_id = s.school_id`

func (r *repository) GetUpload(ctx context.Context, uploadID int64) (*model.UploadWithSchool, error) {
	var u model.UploadWithSchool
	err := r.db.QueryRowContext(ctx, uploadJoinSelect+` WHERE u.upload_id = ?`, uploadID).Scan(
		&u.ID, &u.SchoolID, &u.FileName, &u.FilePath, &u.Status,
		&u.UploadedBy, &u.UploadedAt, &u.ReviewedBy, &u.ReviewedAt, &u.TotalStudents, &u.Notes,
		&u.SchoolName, &u.PrincipalEmail, &u.District,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (r *repository) ListUploads(ctx context.Context) ([]model.UploadWithSchool, error) {
	rows, err := r.db.QueryContext(ctx, uploadJoinSelect+` ORDER BY u.uploaded_at DESC, u.upload_id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uploads []model.UploadWithSchool
	for rows.Next() {
		var u model.UploadWithSchool
		err := rows.Scan(&u.ID, &u.SchoolID, &u.FileName, &u.FilePath, &u.Status,
			&u.UploadedBy, &u.UploadedAt, &u.ReviewedBy, &u.ReviewedAt, &u.TotalStudents, &u.Notes,
			&u.SchoolName, &u.PrincipalEmail, &u.District)
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, u)
	}

	return uploads, rows.Err()
}

func (r *repository) GetStudents(ctx context.Context, uploadID int64) ([]model.Student, error) {
	query := `SELECT student_id, upload_id, school_id, student_name, class, roll_number, response_data, created_at
			  FROM students WHERE upload_id = ? ORDER BY student_id`

	rows, err := r.db.QueryContext(ctx, query, uploadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var students []model.Student
	for rows.Next() {
		var student model.Student
		err := rows.Scan(&student.ID, &student.UploadID, &student.SchoolID, &student.Name,
			&student.Class, &student.RollNumber, &student.Responses, &student.CreatedAt)
		if err != nil {
			return nil, err
		}
		students = append(students, student)
	}

	return students, rows.Err()
}

func (r *repository) UpdateStatus(ctx context.Context, uploadID int64, status model.UploadStatus, reviewedBy string) error {
	query := `UPDATE uploads SET status = ?, reviewed_by = ?, reviewed_at = NOW() WHERE upload_id = ?`
	res, err := r.db.ExecContext(ctx, query, status, reviewedBy, uploadID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrUploadNotFound
	}
	return nil
}

// UpdateStatusIf only commits when the current status still matches expected,
// closing the read-then-write race between concurrent reviewers.
func (r *repository) UpdateStatusIf(ctx context.Context, uploadID int64, expected, next model.UploadStatus, reviewedBy string, notes *string) error {
	query := `UPDATE uploads SET status = ?, reviewed_by = ?, reviewed_at = NOW(), notes = COALESCE(?, notes)
			  WHERE upload_id = ? AND status = ?`
	res, err := r.db.ExecContext(ctx, query, next, reviewedBy, notes, uploadID, expected)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrIllegalTransition
	}
	return nil
}

func (r *repository) DeleteUpload(ctx context.Context, uploadID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM students WHERE upload_id = ?`, uploadID); err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM uploads WHERE upload_id = ?`, uploadID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return errors.ErrUploadNotFound
	}

	return tx.Commit()
}
