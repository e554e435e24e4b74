package department

import (
	"context"
	"fmt"
)

// Service は部署に関するユースケースをまとめます。
type Service struct {
	repo Repository
}

// UseCase は部署ユースケースの公開インターフェースです。
type UseCase interface {
	GetDepartments(ctx context.Context) ([]*Department, error)
	GetDepartment(ctx context.Context, id int64) (*Department, error)
}

// NewService は Service を生成します。
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetDepartments は部署の一覧を取得します。
func (s *Service) GetDepartments(ctx context.Context) ([]*Department, error) {
	departments, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if departments == nil {
		departments = []*Department{}
	}
	return departments, nil
}

// GetDepartment は部署を取得します。
func (s *Service) GetDepartment(ctx context.Context, id int64) (*Department, error) {
	if id <= 0 {
		return nil, fmt.Errorf("id: %w", ErrInvalidID)
	}
	return s.repo.FindByID(ctx, id)
}
