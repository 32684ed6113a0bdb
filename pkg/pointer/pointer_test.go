// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pointer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/madr-app/madr/pkg/pointer"
)

func TestPointerHelpers(t *testing.T) {
	assert.Equal(t, "x", *pointer.To("x"))
	assert.Equal(t, "", pointer.Val[string](nil))
	assert.Equal(t, 7, pointer.Val(pointer.To(7)))

	assert.Nil(t, pointer.NonZero(""))
	assert.Nil(t, pointer.NonZero(int64(0)))
	assert.Equal(t, "sub", *pointer.NonZero("sub"))
}
