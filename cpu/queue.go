package cpu

// InstructionQueue is the depth-1 prefetch queue sitting between memory
// and the decoder. A jump flushes it, so the word after a taken branch is
// refetched from the branch target, never executed stale.
type InstructionQueue struct {
	word  uint32
	addr  uint32
	valid bool
}

// Fetch returns the instruction word at addr, reading memory only when
// the queued word does not match.
func (q *InstructionQueue) Fetch(addr uint32, read func(addr uint32) (uint32, error)) (word uint32, err error) {
	if q.valid && q.addr == addr {
		word = q.word
		return
	}

	word, err = read(addr)
	if err != nil {
		return
	}

	q.word = word
	q.addr = addr
	q.valid = true
	return
}

// Peek returns the queued word without touching memory. ok is false
// after a flush, before the first fetch.
func (q *InstructionQueue) Peek() (word uint32, ok bool) {
	word, ok = q.word, q.valid
	return
}

// Prefetch queues the word at addr ahead of the next Fetch.
func (q *InstructionQueue) Prefetch(addr uint32, read func(addr uint32) (uint32, error)) {
	word, err := read(addr)
	if err != nil {
		// Off the end of text; the next Fetch will fault for real.
		return
	}
	q.word = word
	q.addr = addr
	q.valid = true
}

// Flush discards the queued word.
func (q *InstructionQueue) Flush() {
	q.valid = false
}
