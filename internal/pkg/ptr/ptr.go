package ptr

import (
	"booking-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func Of[T any](v T) *T {
	return &v
}

func IntFromPgtype(pi pgtype.Int4) *int {
	if !pi.Valid {
		return nil
	}
	return Of(int(pi.Int32))
}

func Int32FromPgtype(pi pgtype.Int2) *int32 {
	if !pi.Valid {
		return nil
	}
	return Of(int32(pi.Int16))
}

// DecimalFromPgtype maps SQL NULL to nil and rejects NaN and infinities.
func DecimalFromPgtype(pn pgtype.Numeric) (*decimal.Decimal, error) {
	if !pn.Valid {
		return nil, nil
	}
	d, err := pgconv.DecimalFromPgtype(pn)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
