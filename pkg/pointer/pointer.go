// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer converts between optional (nil-able) values and plain values.

Optional columns (first_name, google_sub, ...) and partial-update payloads are
modelled as pointers; these helpers keep that conversion out of business code.
*/
package pointer

// To returns a pointer to the provided value.
func To[T any](v T) *T {
	return &v
}

// Val safely dereferences a pointer, returning the zero value for nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NonZero returns nil for the zero value of T and a pointer to v otherwise.
//
// Used to store "" as SQL NULL so optional unique columns never collide.
func NonZero[T comparable](v T) *T {
	var zero T
	if v == zero {
		return nil
	}
	return &v
}
