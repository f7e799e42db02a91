package kernel_test

import (
	"math"
	"testing"

	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := kernel.NewMoney(1250)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), m.Minor())
	assert.Equal(t, "12.50", m.String())

	zero, err := kernel.NewMoney(0)
	require.NoError(t, err)
	assert.Equal(t, "0.00", zero.String())

	_, err = kernel.NewMoney(-1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestMoney_Arithmetic(t *testing.T) {
	price, _ := kernel.NewMoney(399)
	fee, _ := kernel.NewMoney(150)

	sum, err := price.Add(fee)
	require.NoError(t, err)
	assert.Equal(t, int64(549), sum.Minor())

	reversed, err := fee.Add(price)
	require.NoError(t, err)
	assert.True(t, sum.IsEqual(reversed))
}

func TestMoney_AddOverflow(t *testing.T) {
	largest, err := kernel.NewMoney(math.MaxInt64)
	require.NoError(t, err)
	one, err := kernel.NewMoney(1)
	require.NoError(t, err)

	_, err = largest.Add(one)
	require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)

	same, err := largest.Add(kernel.Money{})
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), same.Minor())
}
