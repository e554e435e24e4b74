package department

import "context"

// Repository は部署エンティティの参照を行うインターフェースです。
type Repository interface {
	FindByID(ctx context.Context, id int64) (*Department, error)
	List(ctx context.Context) ([]*Department, error)
}
