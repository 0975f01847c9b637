package memory

import (
	"context"
	"slices"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type AdminRepository struct {
	db *DB
}

var _ ports.AdminRepository = (*AdminRepository)(nil)

func (r *AdminRepository) find(match func(*domain.Admin) bool) (*domain.Admin, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, a := range r.db.admins {
		if match(a) {
			admin := *a
			return &admin, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	return r.find(func(a *domain.Admin) bool { return a.Email == email })
}

func (r *AdminRepository) FindByID(ctx context.Context, id string) (*domain.Admin, error) {
	return r.find(func(a *domain.Admin) bool { return a.ID == id })
}

func (r *AdminRepository) Create(ctx context.Context, admin *domain.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.admins {
		if a.Email == admin.Email {
			return domain.ErrConflict
		}
	}
	stored := *admin
	r.db.admins = append(r.db.admins, &stored)
	return nil
}

func (r *AdminRepository) Update(ctx context.Context, admin *domain.Admin) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, a := range r.db.admins {
		if a.ID != admin.ID && a.Email == admin.Email {
			return domain.ErrConflict
		}
	}
	for i, a := range r.db.admins {
		if a.ID == admin.ID {
			stored := *admin
			r.db.admins[i] = &stored
			return nil
		}
	}
	return domain.ErrNotFound
}

type StudentRepository struct {
	db *DB
}

var _ ports.StudentRepository = (*StudentRepository)(nil)

func (r *StudentRepository) List(ctx context.Context) ([]domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return oldestFirst(r.db.students, nil), nil
}

func (r *StudentRepository) find(match func(*domain.Student) bool) (*domain.Student, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	for _, s := range r.db.students {
		if match(s) {
			student := *s
			return &student, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	return r.find(func(s *domain.Student) bool { return s.ID == id })
}

func (r *StudentRepository) FindByRollNo(ctx context.Context, rollNo string) (*domain.Student, error) {
	return r.find(func(s *domain.Student) bool { return s.RollNo == rollNo })
}

func (r *StudentRepository) Create(ctx context.Context, student *domain.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for _, s := range r.db.students {
		if s.RollNo == student.RollNo {
			return domain.ErrConflict
		}
	}
	stored := *student
	r.db.students = append(r.db.students, &stored)
	return nil
}

func (r *StudentRepository) Update(ctx context.Context, student *domain.Student) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	for i, s := range r.db.students {
		if s.ID == student.ID {
			stored := *student
			r.db.students[i] = &stored
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	idx := slices.IndexFunc(r.db.students, func(s *domain.Student) bool { return s.ID == id })
	if idx < 0 {
		return domain.ErrNotFound
	}
	r.db.students = slices.Delete(r.db.students, idx, idx+1)

	// student-owned rows follow the student, as with the postgres foreign keys
	r.db.payments = slices.DeleteFunc(r.db.payments, func(p *domain.Payment) bool { return p.StudentID == id })
	r.db.feedback = slices.DeleteFunc(r.db.feedback, func(f *domain.Feedback) bool { return f.StudentID == id })
	r.db.ratings = slices.DeleteFunc(r.db.ratings, func(m *domain.MealRating) bool { return m.StudentID == id })
	r.db.complaints = slices.DeleteFunc(r.db.complaints, func(c *domain.Complaint) bool { return c.StudentID == id })
	r.db.notifications = slices.DeleteFunc(r.db.notifications, func(n *domain.Notification) bool {
		return n.StudentID != nil && *n.StudentID == id
	})
	for _, n := range r.db.notifications {
		n.ReadBy = slices.DeleteFunc(n.ReadBy, func(s string) bool { return s == id })
	}
	return nil
}

func (r *StudentRepository) CountActive(ctx context.Context) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	n := 0
	for _, s := range r.db.students {
		if s.IsActive() {
			n++
		}
	}
	return n, nil
}
