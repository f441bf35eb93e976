package mem

// Default segment geometry, applied when the program carries no
// .text_start/.stack_start/.stack_size directives.
const (
	DEFAULT_TEXT_START = uint32(0)
	DEFAULT_STACK_SIZE = uint32(4096)
)

// Layout describes the text/stack/data segment geometry inside a Memory.
// The data segment sits immediately below the stack and grows downward:
// DataStart = StackStart - DataSize.
type Layout struct {
	TextStart  uint32 // First address of the text segment.
	TextSize   uint32 // Bytes of encoded instructions.
	StackStart uint32 // First address of the stack segment.
	StackSize  uint32 // Bytes reserved for the SP-indexed stack.
	DataStart  uint32 // First address of the data segment.
	DataSize   uint32 // Bytes of initialized data.
}

// DefaultLayout returns the documented default geometry for a memory of
// the given total size.
func DefaultLayout(total uint32) (layout Layout) {
	layout = Layout{
		TextStart:  DEFAULT_TEXT_START,
		StackSize:  DEFAULT_STACK_SIZE,
		StackStart: total - DEFAULT_STACK_SIZE,
	}
	layout.DataStart = layout.StackStart

	return
}

// StackEnd returns the first address past the stack segment.
func (layout *Layout) StackEnd() uint32 {
	return layout.StackStart + layout.StackSize
}

// TextEnd returns the first address past the text segment.
func (layout *Layout) TextEnd() uint32 {
	return layout.TextStart + layout.TextSize
}

// Validate checks that all segments are contained in [0, total) and are
// pairwise non-overlapping. A violated layout is rejected before any
// instruction runs.
func (layout *Layout) Validate(total uint32) (err error) {
	type segment struct {
		name  string
		start uint32
		size  uint32
	}

	segments := []segment{
		{"text", layout.TextStart, layout.TextSize},
		{"data", layout.DataStart, layout.DataSize},
		{"stack", layout.StackStart, layout.StackSize},
	}

	for _, seg := range segments {
		end := uint64(seg.start) + uint64(seg.size)
		if seg.start >= total || end > uint64(total) {
			err = &ErrSegment{Segment: seg.name, Reason: f("escapes memory of %d bytes", total)}
			return
		}
	}

	for n, a := range segments {
		for _, b := range segments[n+1:] {
			if a.size == 0 || b.size == 0 {
				continue
			}
			if a.start < b.start+b.size && b.start < a.start+a.size {
				err = &ErrSegment{Segment: a.name, Reason: f("overlaps %v segment", b.name)}
				return
			}
		}
	}

	return
}
