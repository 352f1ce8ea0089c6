package terminal

// EventType distinguishes poll results
type EventType uint8

const (
	EventNone EventType = iota
	EventResize
	EventKey
)

// Event is the result of Session.Poll
type Event struct {
	Type EventType

	// EventKey
	Mod Modifier
	Key Key
	Ch  rune

	// EventResize: dimensions before the change
	OldWidth  int
	OldHeight int
}

const (
	// inputBufferSize is the fixed capacity of the input stream
	inputBufferSize = 4096
	// inputHighWater triggers compaction before a read
	inputHighWater = inputBufferSize * 3 / 4
)

// streamBuffer holds received bytes between start (next undecoded byte)
// and end (next free byte)
type streamBuffer struct {
	data  [inputBufferSize]byte
	start int
	end   int
}

func (s *streamBuffer) unread() []byte {
	return s.data[s.start:s.end]
}

func (s *streamBuffer) free() []byte {
	return s.data[s.end:]
}

func (s *streamBuffer) commit(n int) {
	s.end += n
}

func (s *streamBuffer) consume(n int) {
	s.start += n
	if s.start >= s.end {
		s.start, s.end = 0, 0
	}
}

func (s *streamBuffer) reset() {
	s.start, s.end = 0, 0
}

// compact makes room once the write cursor passes the high-water mark.
// A buffer full of undecodable bytes is discarded entirely.
func (s *streamBuffer) compact() {
	if s.end <= inputHighWater {
		return
	}
	if s.start == 0 {
		if s.end == len(s.data) {
			s.reset()
		}
		return
	}
	n := copy(s.data[:], s.data[s.start:s.end])
	s.start, s.end = 0, n
}

// pendingKey survives between polls while a sequence may be incomplete
type pendingKey struct {
	escape bool
	mod    Modifier
	key    Key
	ch     rune
}

func (p *pendingKey) event() Event {
	ev := Event{Type: EventKey, Mod: p.mod, Key: p.key, Ch: p.ch}
	*p = pendingKey{}
	return ev
}

// keyDecoder layers trie match, the escape heuristic and UTF-8 fallback
type keyDecoder struct {
	trie    *keyTrie
	pending pendingKey
}

// next decodes one event from s. false means more bytes are needed.
func (d *keyDecoder) next(s *streamBuffer) (Event, bool) {
	for {
		data := s.unread()
		if len(data) == 0 {
			return Event{}, false
		}

		if d.trie != nil {
			if n, v := d.trie.decode(data); n > 0 {
				s.consume(n)
				d.pending = pendingKey{mod: v.mod, key: v.key, ch: v.ch}
				return d.pending.event(), true
			}
		}

		if data[0] == 0x1b {
			if !d.pending.escape {
				d.pending.escape = true
				return Event{}, false
			}
			s.consume(1)
			d.pending = pendingKey{key: KeyEscape}
			return d.pending.event(), true
		}

		seqLen := utf8SeqLen(data[0])
		if seqLen == 0 {
			// Invalid start byte, skip
			s.consume(1)
			continue
		}
		if len(data) < seqLen {
			return Event{}, false
		}
		r, size := decodeRune(data)
		s.consume(size)
		d.pending = pendingKey{key: KeyRune, ch: r}
		return d.pending.event(), true
	}
}

// resolvable reports a pending escape followed by buffered bytes that no
// further input can turn into a registered sequence
func (d *keyDecoder) resolvable(s *streamBuffer) bool {
	data := s.unread()
	if !d.pending.escape || len(data) < 2 {
		return false
	}
	return d.trie == nil || !d.trie.isPrefix(data)
}

func (d *keyDecoder) reset() {
	d.pending = pendingKey{}
}

// utf8SeqLen returns expected UTF-8 sequence length from start byte, 0 if invalid
func utf8SeqLen(b byte) int {
	if b < 0x80 {
		return 1
	}
	if b&0xe0 == 0xc0 {
		return 2
	}
	if b&0xf0 == 0xe0 {
		return 3
	}
	if b&0xf8 == 0xf0 {
		return 4
	}
	return 0 // Invalid
}

// decodeRune decodes the first UTF-8 rune from data
func decodeRune(data []byte) (rune, int) {
	if len(data) == 0 {
		return 0, 0
	}

	b := data[0]
	if b < 0x80 {
		return rune(b), 1
	}

	var size int
	var min rune
	var r rune

	switch {
	case b&0xe0 == 0xc0:
		size = 2
		min = 0x80
		r = rune(b & 0x1f)
	case b&0xf0 == 0xe0:
		size = 3
		min = 0x800
		r = rune(b & 0x0f)
	case b&0xf8 == 0xf0:
		size = 4
		min = 0x10000
		r = rune(b & 0x07)
	default:
		return 0xFFFD, 1 // Invalid, return replacement char
	}

	if len(data) < size {
		return 0xFFFD, 1
	}

	for i := 1; i < size; i++ {
		if data[i]&0xc0 != 0x80 {
			return 0xFFFD, 1
		}
		r = r<<6 | rune(data[i]&0x3f)
	}

	if r < min {
		return 0xFFFD, 1 // Overlong encoding
	}

	return r, size
}
