package registry

import (
	"context"
	"errors"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
)

// ErrNoRecord is returned by stores when no record matches scope and id.
var ErrNoRecord = errors.New("registry: no record")

// ErrDuplicateName is returned by stores when a scope already owns a profile with the same name.
var ErrDuplicateName = errors.New("registry: duplicate name")

// Profile is implemented by the profile types a ProfileStore can hold.
type Profile interface {
	carbon.MachineProfile | carbon.MaterialProfile
	ProfileID() string
}

// ProfileStore persists custom profiles partitioned by organization scope.
// Implementations must be safe for concurrent use and return List results
// in creation order.
type ProfileStore[P Profile] interface {
	List(ctx context.Context, scope string) ([]P, error)
	Get(ctx context.Context, scope, id string) (P, error)
	Insert(ctx context.Context, scope string, p P) error
	Update(ctx context.Context, scope string, p P) error
	Delete(ctx context.Context, scope, id string) error
}

// MachineStore persists custom machines.
type MachineStore = ProfileStore[carbon.MachineProfile]

// MaterialStore persists custom materials.
type MaterialStore = ProfileStore[carbon.MaterialProfile]
