package employee

import "context"

// Repository は社員永続化の抽象です。
type Repository interface {
	Create(ctx context.Context, employee *Employee) (*Employee, error)
	Update(ctx context.Context, employee *Employee) (*Employee, error)
	Delete(ctx context.Context, id int64) (*Employee, error)
	FindByID(ctx context.Context, id int64) (*Employee, error)
	List(ctx context.Context) ([]*Employee, error)
	Search(ctx context.Context, filter SearchFilter) ([]*Employee, error)
}

// SearchFilter は検索条件です。Name が空の場合は名前で絞り込みません。
type SearchFilter struct {
	Name   string
	Gender *Gender
}
