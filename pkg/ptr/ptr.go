package ptr

// Ptr возвращает указатель на значение v
func Ptr[T any](v T) *T {
	return &v
}

// Value возвращает значение по указателю или zero value, если указатель nil
func Value[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
