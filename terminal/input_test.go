package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feed(s *streamBuffer, data string) {
	s.commit(copy(s.free(), data))
}

func newTestDecoder() *keyDecoder {
	return &keyDecoder{trie: testTrie(xtermStrings)}
}

func keyEvent(mod Modifier, key Key, ch rune) Event {
	return Event{Type: EventKey, Mod: mod, Key: key, Ch: ch}
}

// TestDecoder_Sequence verifies a complete sequence yields one event
func TestDecoder_Sequence(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer
	feed(&s, "\x1bOD\x1b[24~q")

	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyLeft, 0), ev)

	ev, ok = d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyF12, 0), ev)

	ev, ok = d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyRune, 'q'), ev)

	_, ok = d.next(&s)
	assert.False(t, ok)
	assert.Empty(t, s.unread())
}

// TestDecoder_SplitSequence verifies a prefix waits for the rest
func TestDecoder_SplitSequence(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer

	feed(&s, "\x1b[1;")
	_, ok := d.next(&s)
	assert.False(t, ok)
	assert.Len(t, s.unread(), 4, "nothing consumed while incomplete")
	assert.True(t, d.pending.escape)

	feed(&s, "5C")
	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModCtrl, KeyRight, 0), ev)
	assert.False(t, d.pending.escape)
}

// TestDecoder_LoneEscape verifies the two-phase escape resolution
func TestDecoder_LoneEscape(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer
	feed(&s, "\x1b")

	_, ok := d.next(&s)
	assert.False(t, ok, "first look waits for more bytes")

	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyEscape, 0), ev)
	assert.Empty(t, s.unread())
}

// TestDecoder_EscapeThenUnknown verifies an unmatched continuation splits
// into Escape followed by the next key
func TestDecoder_EscapeThenUnknown(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer
	feed(&s, "\x1bx")

	_, ok := d.next(&s)
	assert.False(t, ok)

	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, KeyEscape, ev.Key)

	ev, ok = d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyRune, 'x'), ev)
}

// TestDecoder_DoubleEscape verifies the doubled escape literal
func TestDecoder_DoubleEscape(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer
	feed(&s, "\x1b\x1b")

	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModAlt, KeyEscape, 0), ev)
}

// TestDecoder_UTF8 verifies multi-byte runes wait for all code units
func TestDecoder_UTF8(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer

	feed(&s, "\xc3")
	_, ok := d.next(&s)
	assert.False(t, ok)
	assert.Len(t, s.unread(), 1)

	feed(&s, "\xa9")
	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyRune, 'é'), ev)

	feed(&s, "🙂世")
	ev, ok = d.next(&s)
	require.True(t, ok)
	assert.Equal(t, '🙂', ev.Ch)
	ev, ok = d.next(&s)
	require.True(t, ok)
	assert.Equal(t, '世', ev.Ch)
}

// TestDecoder_InvalidLeadByteSkipped verifies garbage does not stall input
func TestDecoder_InvalidLeadByteSkipped(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer
	feed(&s, "\x80\xffa")

	ev, ok := d.next(&s)
	require.True(t, ok)
	assert.Equal(t, keyEvent(ModNone, KeyRune, 'a'), ev)

	feed(&s, "\xfe")
	_, ok = d.next(&s)
	assert.False(t, ok)
	assert.Empty(t, s.unread())
}

// TestDecoder_ControlKeys verifies trie literals take precedence over runes
func TestDecoder_ControlKeys(t *testing.T) {
	d := newTestDecoder()
	var s streamBuffer
	feed(&s, "\x03\r\x7f\t")

	want := []Key{KeyCtrlC, KeyEnter, KeyBackspace, KeyTab}
	for _, k := range want {
		ev, ok := d.next(&s)
		require.True(t, ok)
		assert.Equal(t, k, ev.Key)
	}
}

// TestStreamBuffer_Compact verifies the high-water discard policy
func TestStreamBuffer_Compact(t *testing.T) {
	var s streamBuffer

	s.commit(100)
	s.consume(40)
	s.compact()
	assert.Equal(t, 40, s.start, "below the mark nothing moves")

	s.reset()
	s.data[inputHighWater] = 'Z'
	s.commit(inputHighWater + 10)
	s.consume(inputHighWater)
	s.compact()
	assert.Zero(t, s.start)
	assert.Equal(t, 10, s.end)
	assert.Equal(t, byte('Z'), s.unread()[0], "unread bytes shift to the front")

	s.reset()
	s.commit(inputHighWater + 1)
	s.compact()
	assert.Equal(t, inputHighWater+1, s.end, "not full and nothing consumed: kept")

	s.reset()
	s.commit(inputBufferSize)
	s.compact()
	assert.Zero(t, s.end, "full with nothing consumed: discarded")
	assert.Len(t, s.free(), inputBufferSize)
}

// TestStreamBuffer_ConsumeAllResets verifies cursors rewind when drained
func TestStreamBuffer_ConsumeAllResets(t *testing.T) {
	var s streamBuffer
	feed(&s, "abc")
	s.consume(3)
	assert.Zero(t, s.start)
	assert.Zero(t, s.end)
}

// TestDecoder_Resolvable verifies when buffered bytes after an escape can
// be decoded without waiting for more input
func TestDecoder_Resolvable(t *testing.T) {
	cases := []struct {
		data string
		want bool
	}{
		{"\x1ba", true},
		{"\x1b\x1b", false}, // matched by the trie before the escape path
		{"\x1b[1;", false},
		{"\x1bO", false},
		{"\x1b", false},
		{"\x1b[1;9", true},
	}
	for _, tc := range cases {
		d := newTestDecoder()
		var s streamBuffer
		feed(&s, tc.data)
		if _, ok := d.next(&s); ok {
			assert.False(t, tc.want, "%q decoded immediately", tc.data)
			continue
		}
		assert.Equal(t, tc.want, d.resolvable(&s), "%q", tc.data)
	}
}
