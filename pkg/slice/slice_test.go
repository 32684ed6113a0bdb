// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madr-app/madr/pkg/slice"
)

/*
TestUnique keeps first occurrences in order.
*/
func TestUnique(t *testing.T) {
	tests := []struct {
		name  string
		input []int64
		want  []int64
	}{
		{"nil", nil, nil},
		{"no_duplicates", []int64{3, 1, 2}, []int64{3, 1, 2}},
		{"duplicates", []int64{2, 1, 2, 3, 1}, []int64{2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, slice.Unique(tt.input))
		})
	}
}
