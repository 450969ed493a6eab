package components

import (
	"booking-engine/internal/handler"
	"booking-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewListingHandler,
		api.NewBookingHandler,
	),
	fx.Invoke(handler.NewRouter),
)
