package service

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/api/dto"
	"github.com/flexcargo/flexcargo/internal/cache"
	"github.com/flexcargo/flexcargo/internal/domain/branch"
	"github.com/flexcargo/flexcargo/internal/types"
)

type BranchService interface {
	CreateBranch(ctx context.Context, req dto.CreateBranchRequest) (*dto.BranchResponse, error)
	// GetBranch returns a branch of the context tenant, served from cache when possible
	GetBranch(ctx context.Context, id string) (*branch.Branch, error)
	ListBranches(ctx context.Context) ([]*branch.Branch, error)
}

type branchService struct {
	ServiceParams
}

func NewBranchService(params ServiceParams) BranchService {
	return &branchService{
		ServiceParams: params,
	}
}

func (s *branchService) CreateBranch(ctx context.Context, req dto.CreateBranchRequest) (*dto.BranchResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := req.ToBranch(ctx)
	if err := s.BranchRepo.Create(ctx, b); err != nil {
		return nil, err
	}

	return &dto.BranchResponse{Branch: b}, nil
}

func (s *branchService) GetBranch(ctx context.Context, id string) (*branch.Branch, error) {
	key := cache.BranchKey(types.GetTenantID(ctx), id)
	if cached, ok := s.Cache.Get(ctx, key); ok {
		if b, ok := cached.(*branch.Branch); ok {
			return b, nil
		}
	}

	b, err := s.BranchRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.Cache.Set(ctx, key, b, 0)
	return b, nil
}

func (s *branchService) ListBranches(ctx context.Context) ([]*branch.Branch, error) {
	return s.BranchRepo.List(ctx)
}
