package ports

import (
	"context"

	"diamondeda/domain/dataset"
)

// DatasetLoader resolves a dataset by name into a typed Table
type DatasetLoader interface {
	Load(ctx context.Context, name string) (*dataset.Table, error)
}
