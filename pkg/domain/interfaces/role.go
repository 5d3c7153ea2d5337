package interfaces

import (
	"context"

	"github.com/jari1882/simkb/pkg/domain/model"
	"github.com/jari1882/simkb/pkg/domain/types"
)

type RoleRepository interface {
	// Upsert keys on ShortName.
	Upsert(ctx context.Context, role *model.Role) (*model.Role, error)
	Get(ctx context.Context, id types.RoleID) (*model.Role, error)
	List(ctx context.Context) ([]*model.Role, error)
	// FindByName matches against both Name and ShortName.
	FindByName(ctx context.Context, query string) ([]*model.Role, error)
	Count(ctx context.Context) (int, error)
}
