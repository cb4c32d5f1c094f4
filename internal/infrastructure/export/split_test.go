package export

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeRows(n int) [][]string {
	rows := make([][]string, n)
	for i := range rows {
		rows[i] = []string{fmt.Sprintf("row-%d", i)}
	}
	return rows
}

func TestSplitRowsTenIntoThree(t *testing.T) {
	chunks := SplitRows(makeRows(10), 3)

	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0], 4)
	assert.Len(t, chunks[1], 4)
	assert.Len(t, chunks[2], 2)
}

func TestSplitRowsSingleChunkCases(t *testing.T) {
	rows := makeRows(5)

	assert.Len(t, SplitRows(rows, 0), 1)
	assert.Len(t, SplitRows(rows, 1), 1)

	// Row count not exceeding the split count stays a single chunk.
	chunks := SplitRows(rows, 5)
	require.Len(t, chunks, 1)
	assert.Len(t, chunks[0], 5)

	chunks = SplitRows(rows, 10)
	require.Len(t, chunks, 1)
}

func TestSplitRowsSkipsEmptyTrailingChunks(t *testing.T) {
	// 7 rows into 6 chunks: ceil(7/6)=2 per chunk, so only 4 chunks exist.
	chunks := SplitRows(makeRows(7), 6)
	require.Len(t, chunks, 4)
	assert.Len(t, chunks[3], 1)
	for _, chunk := range chunks {
		assert.NotEmpty(t, chunk)
	}
}

func TestSplitRowsConcatenationRestoresInput(t *testing.T) {
	rows := makeRows(23)
	for n := 1; n <= 25; n++ {
		var joined [][]string
		for _, chunk := range SplitRows(rows, n) {
			joined = append(joined, chunk...)
		}
		assert.Equal(t, rows, joined, "n=%d", n)
	}
}
