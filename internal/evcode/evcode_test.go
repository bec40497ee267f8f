package evcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromNativeButton(t *testing.T) {
	tests := []struct {
		native uint32
		want   uint32
	}{
		{1, BtnLeft},
		{2, BtnMiddle},
		{3, BtnRight},
		{4, BtnLeft + 3},
		{8, BtnLeft + 7},
	}

	for _, tt := range tests {
		got := FromNativeButton(tt.native)
		assert.Equal(t, tt.want, got, "native button %d", tt.native)
		assert.Equal(t, tt.native, ToNativeButton(got), "round trip of %d", tt.native)
	}
}

func TestFromScroll(t *testing.T) {
	want := map[ScrollDirection]uint32{
		ScrollUp:    BtnSide,
		ScrollDown:  BtnExtra,
		ScrollLeft:  BtnForward,
		ScrollRight: BtnBack,
	}
	seen := map[uint32]bool{}
	for dir, code := range want {
		got, ok := FromScroll(dir)
		assert.True(t, ok, dir.String())
		assert.Equal(t, code, got, dir.String())
		seen[got] = true
	}
	assert.Len(t, seen, 4, "each direction has its own button")

	_, ok := FromScroll(ScrollSmooth)
	assert.False(t, ok)
}

func TestParseScrollDirection(t *testing.T) {
	d, err := ParseScrollDirection("left")
	assert.NoError(t, err)
	assert.Equal(t, ScrollLeft, d)

	_, err = ParseScrollDirection("sideways")
	assert.Error(t, err)
}

func TestName(t *testing.T) {
	assert.Equal(t, "BTN_SIDE", Name(BtnSide))
	assert.Equal(t, "0x1e", Name(30))
	assert.True(t, IsButton(BtnExtra))
	assert.False(t, IsButton(30))
}
