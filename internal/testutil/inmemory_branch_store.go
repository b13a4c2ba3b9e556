package testutil

import (
	"context"
	"strings"

	"github.com/flexcargo/flexcargo/internal/domain/branch"
	ierr "github.com/flexcargo/flexcargo/internal/errors"
	"github.com/flexcargo/flexcargo/internal/types"
)

var _ branch.Repository = (*InMemoryBranchStore)(nil)

type InMemoryBranchStore struct {
	*InMemoryStore[*branch.Branch]
}

func NewInMemoryBranchStore() *InMemoryBranchStore {
	return &InMemoryBranchStore{
		InMemoryStore: NewInMemoryStore[*branch.Branch](),
	}
}

func (s *InMemoryBranchStore) Create(ctx context.Context, b *branch.Branch) error {
	if _, taken := s.Find(ctx, func(ctx context.Context, other *branch.Branch) bool {
		return other.TenantID == b.TenantID && other.Code == b.Code
	}); taken {
		return ierr.NewError("branch code already exists").
			WithHintf("A branch with code %s already exists", b.Code).
			Mark(ierr.ErrAlreadyExists)
	}
	return s.InMemoryStore.Create(ctx, b.ID, b)
}

func (s *InMemoryBranchStore) Get(ctx context.Context, id string) (*branch.Branch, error) {
	b, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTenantFilter(ctx, b.TenantID) {
		return nil, ierr.NewError("branch not found").
			WithHintf("Branch %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return b, nil
}

func (s *InMemoryBranchStore) GetByCode(ctx context.Context, code string) (*branch.Branch, error) {
	b, ok := s.Find(ctx, func(ctx context.Context, b *branch.Branch) bool {
		return CheckTenantFilter(ctx, b.TenantID) && b.Code == strings.ToUpper(code)
	})
	if !ok {
		return nil, ierr.NewError("branch not found").
			WithHintf("Branch %s was not found", code).
			Mark(ierr.ErrNotFound)
	}
	return b, nil
}

func (s *InMemoryBranchStore) List(ctx context.Context) ([]*branch.Branch, error) {
	return s.InMemoryStore.List(ctx, func(ctx context.Context, b *branch.Branch) bool {
		return CheckTenantFilter(ctx, b.TenantID) && b.Status == types.StatusActive
	}, func(a, b *branch.Branch) bool {
		return a.Code < b.Code
	}), nil
}
