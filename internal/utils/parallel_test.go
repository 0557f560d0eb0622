package utils

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelize(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 7, 64, 1000} {
		var hits int64
		Parallelize(n, func(start, end int) {
			atomic.AddInt64(&hits, int64(end-start))
		})
		require.Equal(t, int64(n), hits, "n=%d", n)
	}

	// bounded worker count still covers every index exactly once
	seen := make([]int32, 1000)
	Parallelize(len(seen), func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	}, 2)
	for i, c := range seen {
		require.EqualValues(t, 1, c, "index %d", i)
	}
}
