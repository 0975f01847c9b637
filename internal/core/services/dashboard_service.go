package services

import (
	"context"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type DashboardService struct {
	store *ports.Store
}

var _ ports.DashboardService = (*DashboardService)(nil)

// NewDashboardService creates the admin dashboard aggregator
func NewDashboardService(store *ports.Store) *DashboardService {
	return &DashboardService{store: store}
}

// Stats gathers the headline counts and totals for the dashboard
func (s *DashboardService) Stats(ctx context.Context) (*ports.DashboardStats, error) {
	students, err := s.store.Students.List(ctx)
	if err != nil {
		return nil, err
	}
	groceries, err := s.store.Groceries.List(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Expenses.Total(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.store.Complaints.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	stats := &ports.DashboardStats{
		Students:      len(students),
		Groceries:     len(groceries),
		TotalExpenses: total,
		Complaints:    domain.NewComplaintStats(counts),
	}
	for i := range students {
		if students[i].IsActive() {
			stats.ActiveStudents++
		}
	}
	for i := range groceries {
		if groceries[i].IsLow() {
			stats.LowStock++
		}
	}
	return stats, nil
}
