package department

// Department は部署エンティティです。参照専用です。
type Department struct {
	ID   int64
	Name string
}
