package export

// SplitRows partitions rows into up to n contiguous, near-equal chunks of
// ceil(len/n) rows each. n <= 1, or a row count that does not exceed n,
// yields a single chunk; empty trailing chunks are skipped. Concatenating
// the chunks in order reproduces the input exactly.
func SplitRows(rows [][]string, n int) [][][]string {
	if n <= 1 || len(rows) <= n {
		return [][][]string{rows}
	}

	perChunk := (len(rows) + n - 1) / n
	chunks := make([][][]string, 0, n)
	for i := 0; i < n; i++ {
		start := i * perChunk
		if start >= len(rows) {
			break
		}
		end := start + perChunk
		if end > len(rows) {
			end = len(rows)
		}
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}
