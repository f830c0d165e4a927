package pagination

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	p := New(0, 0, 10)
	assert.Equal(t, Page{Number: 1, Limit: 10}, p)
	assert.Equal(t, 0, p.Offset())

	p = New(3, 20, 10)
	assert.Equal(t, 40, p.Offset())

	p = New(1, 1000, 10)
	assert.Equal(t, MaxLimit, p.Limit)

	p = New(-4, -1, 0)
	assert.Equal(t, Page{Number: 1, Limit: DefaultLimit}, p)
}

func TestNew_HugePageNumbers(t *testing.T) {
	tests := []struct {
		name   string
		number int
		limit  int
	}{
		{name: "max int page", number: math.MaxInt, limit: 100},
		{name: "wraps to negative when multiplied", number: math.MaxInt / 50, limit: 100},
		{name: "default limit", number: math.MaxInt / 3, limit: 0},
		{name: "limit one", number: math.MaxInt, limit: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.number, tt.limit, 10)
			assert.GreaterOrEqual(t, p.Offset(), 0)
			assert.LessOrEqual(t, p.Offset(), MaxOffset)
			assert.GreaterOrEqual(t, p.Number, 1)
		})
	}

	// Pages below the cap are untouched.
	assert.Equal(t, 1000, New(1000, 100, 10).Number)
}

func TestTotalPages(t *testing.T) {
	p := New(1, 10, 10)
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(1))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
}

func TestNext(t *testing.T) {
	p := New(2, 5, 5)
	assert.Nil(t, p.Next(5))
	next := p.Next(6)
	require.NotNil(t, next)
	assert.Equal(t, 3, *next)
}
