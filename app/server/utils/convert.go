package utils

// P returns a pointer to v, for optional fields in responses.
func P[T any](v T) *T {
	return &v
}

// V dereferences p, or returns the zero value for nil.
func V[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
