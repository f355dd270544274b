package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTo(t *testing.T) {
	p := To(42)
	*p = 7
	assert.Equal(t, 7, *p)

	v := 1
	q := To(v)
	*q = 2
	assert.Equal(t, 1, v, "To must copy the value")
}

func TestDeref(t *testing.T) {
	assert.Equal(t, 3, Deref(To(3), 9))
	assert.Equal(t, 9, Deref[int](nil, 9))
	assert.Equal(t, "", Deref[string](nil, ""))
}
