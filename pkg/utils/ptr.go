package utils

// Ptr returns a pointer to v. Handy for optional filter fields in tests
// and controllers.
func Ptr[T any](v T) *T {
	return &v
}
