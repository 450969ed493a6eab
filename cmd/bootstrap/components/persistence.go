package components

import (
	"booking-engine/internal/infra/uow"

	"go.uber.org/fx"
)

// Repositories and read stores are built per transaction by the unit of work,
// so the pool-bound UoW is the only persistence dependency.
var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		uow.NewPostgresUoW,
	),
)
