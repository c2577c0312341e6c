// Package collection holds small generic helpers shared across services.
package collection

import "encoding/json"

// DeepCopy returns a structurally equal, reference-distinct copy of a
// JSON-serializable value via a marshal/unmarshal round trip. Scalars are
// returned as-is. Values that cannot be serialized are returned unchanged.
func DeepCopy(v any) any {
	switch v.(type) {
	case nil, bool, string, int, int32, int64, float32, float64:
		return v
	}

	data, err := json.Marshal(v)
	if err != nil {
		return v
	}

	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

// Chunk splits input into slices of at most size elements, preserving order.
func Chunk[T any](input []T, size int) [][]T {
	if size <= 0 || len(input) == 0 {
		return nil
	}

	chunks := make([][]T, 0, (len(input)+size-1)/size)
	for size < len(input) {
		chunks = append(chunks, input[:size])
		input = input[size:]
	}
	return append(chunks, input)
}
