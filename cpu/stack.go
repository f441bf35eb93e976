package cpu

const (
	CALL_STACK_LIMIT = 256 // Maximum call nesting depth
)

// CallStack holds return addresses for CALL/RET. It lives outside the
// memory map; PUSH and POP never touch it.
type CallStack struct {
	Data []uint32
}

func (s *CallStack) PushReturn(addr uint32) (err error) {
	if len(s.Data) == CALL_STACK_LIMIT {
		err = ErrStackOverflow
		return
	}
	s.Data = append(s.Data, addr)
	return
}

func (s *CallStack) PopReturn() (addr uint32, err error) {
	if len(s.Data) == 0 {
		err = ErrStackUnderflow
		return
	}
	addr = s.Data[len(s.Data)-1]
	s.Data = s.Data[:len(s.Data)-1]
	return
}

func (s *CallStack) Depth() int {
	return len(s.Data)
}

func (s *CallStack) Reset() {
	if len(s.Data) > 0 {
		s.Data = s.Data[:0]
	}
}
