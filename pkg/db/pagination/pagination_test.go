package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestResolveAppliesDefault(t *testing.T) {
	page, err := Resolve(nil, nil, 25)
	require.NoError(t, err)
	assert.Equal(t, Page{Limit: 25, Offset: 0}, page)
}

func TestResolveBounds(t *testing.T) {
	cases := []struct {
		name   string
		limit  *int
		offset *int
		err    error
	}{
		{name: "zero limit", limit: intPtr(0), err: ErrInvalidLimit},
		{name: "over max", limit: intPtr(101), err: ErrInvalidLimit},
		{name: "max", limit: intPtr(100)},
		{name: "negative offset", limit: intPtr(10), offset: intPtr(-1), err: ErrInvalidOffset},
		{name: "offset", limit: intPtr(10), offset: intPtr(30)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Resolve(tc.limit, tc.offset, 10)
			if tc.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestInfoKeepsTotalIndependentOfWindow(t *testing.T) {
	info := Page{Limit: 2, Offset: 4}.Info(9)
	assert.Equal(t, PageInfo{Total: 9, Limit: 2, Offset: 4}, info)
}
