package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

type SupplierService struct {
	suppliers ports.SupplierRepository
}

var _ ports.SupplierService = (*SupplierService)(nil)

// NewSupplierService creates a new supplier service
func NewSupplierService(suppliers ports.SupplierRepository) *SupplierService {
	return &SupplierService{suppliers: suppliers}
}

func (s *SupplierService) List(ctx context.Context) ([]domain.Supplier, error) {
	return s.suppliers.List(ctx)
}

func (s *SupplierService) Create(ctx context.Context, in ports.SupplierInput) (*domain.Supplier, error) {
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Phone) == "" {
		return nil, domain.NewValidationError("Supplier name and phone are required")
	}

	items := make(domain.StringList, 0, len(in.SuppliedItems))
	for _, item := range in.SuppliedItems {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	now := time.Now()
	supplier := &domain.Supplier{
		ID:            uuid.NewString(),
		Name:          strings.TrimSpace(in.Name),
		ContactPerson: in.ContactPerson,
		Phone:         strings.TrimSpace(in.Phone),
		Email:         in.Email,
		Address:       in.Address,
		SuppliedItems: items,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.suppliers.Create(ctx, supplier); err != nil {
		return nil, err
	}
	return supplier, nil
}
