package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallStack_PushPop(t *testing.T) {
	assert := assert.New(t)

	s := &CallStack{}
	assert.Equal(0, s.Depth())

	assert.NoError(s.PushReturn(0x100))
	assert.NoError(s.PushReturn(0x200))
	assert.Equal(2, s.Depth())

	addr, err := s.PopReturn()
	assert.NoError(err)
	assert.Equal(uint32(0x200), addr)

	addr, err = s.PopReturn()
	assert.NoError(err)
	assert.Equal(uint32(0x100), addr)
	assert.Equal(0, s.Depth())
}

func TestCallStack_Underflow(t *testing.T) {
	assert := assert.New(t)

	s := &CallStack{}
	_, err := s.PopReturn()
	assert.ErrorIs(err, ErrStackUnderflow)
}

func TestCallStack_Overflow(t *testing.T) {
	assert := assert.New(t)

	s := &CallStack{}
	for n := range CALL_STACK_LIMIT {
		assert.NoError(s.PushReturn(uint32(n)))
	}
	err := s.PushReturn(0xdead)
	assert.ErrorIs(err, ErrStackOverflow)
	assert.Equal(CALL_STACK_LIMIT, s.Depth())
}

func TestCallStack_Reset(t *testing.T) {
	assert := assert.New(t)

	s := &CallStack{}
	assert.NoError(s.PushReturn(0x100))
	s.Reset()
	assert.Equal(0, s.Depth())
}
