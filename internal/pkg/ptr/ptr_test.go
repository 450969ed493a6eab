//go:build unit

package ptr

import (
	"math/big"
	"testing"

	"booking-engine/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_CopiesValue(t *testing.T) {
	v := 24
	p := Of(v)
	v = 48

	require.NotNil(t, p)
	assert.Equal(t, 24, *p)
}

func TestIntFromPgtype(t *testing.T) {
	assert.Nil(t, IntFromPgtype(pgtype.Int4{}))

	got := IntFromPgtype(pgtype.Int4{Int32: 72, Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, 72, *got)
}

func TestInt32FromPgtype(t *testing.T) {
	assert.Nil(t, Int32FromPgtype(pgtype.Int2{}))

	got := Int32FromPgtype(pgtype.Int2{Int16: 3, Valid: true})
	require.NotNil(t, got)
	assert.Equal(t, int32(3), *got)
}

func TestDecimalFromPgtype(t *testing.T) {
	t.Run("null is nil", func(t *testing.T) {
		got, err := DecimalFromPgtype(pgtype.Numeric{})
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("value", func(t *testing.T) {
		got, err := DecimalFromPgtype(pgtype.Numeric{Int: big.NewInt(9000), Exp: -1, Valid: true})
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, decimal.NewFromInt(900).Equal(*got), got.String())
	})

	t.Run("NaN", func(t *testing.T) {
		_, err := DecimalFromPgtype(pgtype.Numeric{NaN: true, Valid: true})
		assert.ErrorIs(t, err, pgconv.ErrInvalidNumeric)
	})
}
