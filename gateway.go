package contentkit

import (
	"context"

	"github.com/lumenworks/contentkit/pkg/models"
)

// Gateway persists documents of one kind. Implementations return the record
// the server stored, which may carry server-assigned fields.
type Gateway[D models.Document] interface {
	List(ctx context.Context) ([]D, error)
	Get(ctx context.Context, key string) (D, error)
	Create(ctx context.Context, doc D) (D, error)
	Update(ctx context.Context, key string, doc D) (D, error)
	Remove(ctx context.Context, doc D) error
}
