package mlflow

import (
	"context"

	"github.com/bibbank/fraud-detection/internal/domain/model"
)

// Registry implements port.ModelRegistry for one registered model.
type Registry struct {
	client *Client
	name   string
}

// NewRegistry creates a catalog over the versions of the named model.
func NewRegistry(client *Client, name string) *Registry {
	return &Registry{client: client, name: name}
}

// ListVersions returns every registered version of the model.
func (r *Registry) ListVersions(ctx context.Context) ([]model.ModelVersion, error) {
	versions, err := r.client.SearchVersions(ctx, r.name)
	if err != nil {
		return nil, err
	}

	out := make([]model.ModelVersion, 0, len(versions))
	for _, v := range versions {
		out = append(out, v.toDomain())
	}
	return out, nil
}
