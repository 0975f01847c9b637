package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/adapters/repository/memory"
	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

const testSecret = "test-secret"

type fixture struct {
	store *ports.Store
	db    *memory.DB
	log   *zap.Logger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, db := memory.NewStore()
	return &fixture{store: store, db: db, log: zap.NewNop()}
}

func (f *fixture) student(t *testing.T, rollNo, password string, status domain.StudentStatus) *domain.Student {
	t.Helper()
	hash, err := hashPassword(password)
	require.NoError(t, err)

	s := &domain.Student{
		ID:        "student-" + rollNo,
		Name:      "Student " + rollNo,
		RollNo:    rollNo,
		RoomNo:    "A-10",
		Password:  hash,
		Status:    status,
		CreatedAt: time.Now(),
	}
	require.NoError(t, f.store.Students.Create(context.Background(), s))
	return s
}

func (f *fixture) auth() *AuthService {
	return NewAuthService(f.store.Admins, f.store.Students, NewTokenManager(testSecret, time.Hour), f.log)
}
