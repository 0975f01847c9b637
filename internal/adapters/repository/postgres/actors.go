package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type AdminRepository struct {
	db *sqlx.DB
}

var _ ports.AdminRepository = (*AdminRepository)(nil)

const adminColumns = `id, name, email, password, role, created_at, updated_at`

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var admin domain.Admin
	err := r.db.GetContext(ctx, &admin, `SELECT `+adminColumns+` FROM admins WHERE email = $1`, email)
	if err != nil {
		return nil, translate(err, "find admin by email")
	}
	return &admin, nil
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*domain.Admin, error) {
	var admin domain.Admin
	err := r.db.GetContext(ctx, &admin, `SELECT `+adminColumns+` FROM admins WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err, "find admin by id")
	}
	return &admin, nil
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO admins (id, name, email, password, role, created_at, updated_at)
		VALUES (:id, :name, :email, :password, :role, :created_at, :updated_at)`, admin)
	return translate(err, "create admin")
}

func (r *AdminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE admins
		SET name = :name, email = :email, password = :password, updated_at = :updated_at
		WHERE id = :id`, admin)
	return expectRow(res, err, "update admin")
}

type StudentRepository struct {
	db *sqlx.DB
}

var _ ports.StudentRepository = (*StudentRepository)(nil)

const studentColumns = `id, name, roll_no, room_no, email, phone, password, status, created_at, updated_at`

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	students := []domain.Student{}
	err := r.db.SelectContext(ctx, &students, `SELECT `+studentColumns+` FROM students ORDER BY created_at`)
	if err != nil {
		return nil, translate(err, "list students")
	}
	return students, nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	if err != nil {
		return nil, translate(err, "find student by id")
	}
	return &student, nil
}

func (r *StudentRepository) FindByRollNo(ctx context.Context, rollNo string) (*domain.Student, error) {
	var student domain.Student
	err := r.db.GetContext(ctx, &student, `SELECT `+studentColumns+` FROM students WHERE roll_no = $1`, rollNo)
	if err != nil {
		return nil, translate(err, "find student by roll no")
	}
	return &student, nil
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO students (id, name, roll_no, room_no, email, phone, password, status, created_at, updated_at)
		VALUES (:id, :name, :roll_no, :room_no, :email, :phone, :password, :status, :created_at, :updated_at)`, student)
	return translate(err, "create student")
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	res, err := r.db.NamedExecContext(ctx, `
		UPDATE students
		SET name = :name, room_no = :room_no, email = :email, phone = :phone,
		    password = :password, status = :status, updated_at = :updated_at
		WHERE id = :id`, student)
	return expectRow(res, err, "update student")
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	return expectRow(res, err, "delete student")
}

func (r *StudentRepository) CountActive(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM students WHERE status = $1`, domain.StudentActive)
	if err != nil {
		return 0, translate(err, "count active students")
	}
	return n, nil
}
