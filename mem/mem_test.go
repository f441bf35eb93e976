package mem

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewMemory_SizeRange(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMemory(SIZE_MIN)
	assert.NoError(err)
	assert.Equal(SIZE_MIN, m.Size())

	m, err = NewMemory(SIZE_MAX)
	assert.NoError(err)
	assert.Equal(SIZE_MAX, m.Size())

	_, err = NewMemory(SIZE_MIN - 1)
	assert.ErrorIs(err, ErrMemorySize)

	_, err = NewMemory(SIZE_MAX + 1)
	assert.ErrorIs(err, ErrMemorySize)
}

func TestMemory_LittleEndian(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMemory(SIZE_MIN)
	assert.NoError(err)

	assert.NoError(m.Write32(0x100, 0x04030201))

	for n, want := range []byte{0x01, 0x02, 0x03, 0x04} {
		value, err := m.ReadByte(0x100 + uint32(n))
		assert.NoError(err)
		assert.Equal(want, value)
	}

	half, err := m.Read16(0x102)
	assert.NoError(err)
	assert.Equal(uint16(0x0403), half)

	word, err := m.Read32(0x100)
	assert.NoError(err)
	assert.Equal(uint32(0x04030201), word)
}

func TestMemory_Bounds(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMemory(SIZE_MIN)
	assert.NoError(err)

	_, err = m.Read32(SIZE_MIN - 2)
	assert.ErrorIs(err, ErrAddressRange)

	err = m.WriteByte(SIZE_MIN, 0xff)
	assert.ErrorIs(err, ErrAddressRange)

	var errAddr *ErrAddress
	assert.True(errors.As(err, &errAddr))
	assert.Equal(SIZE_MIN, errAddr.Addr)

	// Last valid byte is fine.
	assert.NoError(m.WriteByte(SIZE_MIN-1, 0xff))
}

func TestMemory_LoadImage(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMemory(SIZE_MIN)
	assert.NoError(err)

	assert.NoError(m.LoadImage(0x40, []byte{1, 2, 3}))
	window := m.Window(0x40, 3)
	assert.Equal([]byte{1, 2, 3}, window)

	err = m.LoadImage(SIZE_MIN-1, []byte{1, 2})
	assert.ErrorIs(err, ErrAddressRange)
}

func TestMemory_Window_Clamped(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMemory(SIZE_MIN)
	assert.NoError(err)

	window := m.Window(SIZE_MIN-2, 8)
	assert.Len(window, 2)

	window = m.Window(SIZE_MIN+4, 8)
	assert.Len(window, 0)
}

func TestLayout_Default(t *testing.T) {
	assert := assert.New(t)

	layout := DefaultLayout(SIZE_MIN)
	assert.Equal(DEFAULT_TEXT_START, layout.TextStart)
	assert.Equal(DEFAULT_STACK_SIZE, layout.StackSize)
	assert.Equal(SIZE_MIN-DEFAULT_STACK_SIZE, layout.StackStart)
	assert.Equal(SIZE_MIN, layout.StackEnd())
	assert.NoError(layout.Validate(SIZE_MIN))
}

func TestLayout_StackOverlapsText(t *testing.T) {
	assert := assert.New(t)

	layout := Layout{
		TextStart:  0,
		TextSize:   64,
		StackStart: 32,
		StackSize:  4096,
	}
	layout.DataStart = layout.StackStart

	err := layout.Validate(SIZE_MIN)
	assert.ErrorIs(err, ErrSegmentLayout)
}

func TestLayout_EscapesMemory(t *testing.T) {
	assert := assert.New(t)

	layout := DefaultLayout(SIZE_MIN)
	layout.StackStart = SIZE_MIN - 16

	err := layout.Validate(SIZE_MIN)
	assert.ErrorIs(err, ErrSegmentLayout)
}

func TestMemory_SetLayout(t *testing.T) {
	assert := assert.New(t)

	m, err := NewMemory(SIZE_MIN)
	assert.NoError(err)

	layout := DefaultLayout(SIZE_MIN)
	layout.TextSize = 128
	assert.NoError(m.SetLayout(layout))
	assert.Equal(uint32(128), m.Layout.TextSize)

	bad := layout
	bad.StackStart = 64
	err = m.SetLayout(bad)
	assert.ErrorIs(err, ErrSegmentLayout)
	// Rejected layouts do not stick.
	assert.Equal(layout, m.Layout)
}
