package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"nil", nil, 0},
		{"int", 7, 7},
		{"int64", int64(42), 42},
		{"uint8", uint8(3), 3},
		{"float", 2.9, 2},
		{"bytes", []byte("15"), 15},
		{"string", " 8 ", 8},
		{"decimal", "3.0000", 3},
		{"garbage", "abc", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ToInt(tt.in))
		})
	}
}

func TestToString(t *testing.T) {
	assert.Equal(t, "", ToString(nil))
	assert.Equal(t, "abc", ToString("abc"))
	assert.Equal(t, "abc", ToString([]byte("abc")))
	assert.Equal(t, "12", ToString(int64(12)))
}

func TestPointers(t *testing.T) {
	assert.Nil(t, ToStringPtr(nil))
	assert.Nil(t, ToIntPtr(nil))

	s := ToStringPtr([]byte("x"))
	if assert.NotNil(t, s) {
		assert.Equal(t, "x", *s)
	}
	i := ToIntPtr(int64(0))
	if assert.NotNil(t, i) {
		assert.Equal(t, 0, *i)
	}
}
