package utils

// Chunk splits items into consecutive batches of at most size elements. The
// batches share the backing array of items.
func Chunk[T any](items []T, size int) [][]T {
	if size < 1 {
		size = 1
	}
	var batches [][]T
	for i := 0; i < len(items); i += size {
		end := i + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[i:end])
	}
	return batches
}
