package terminal

import (
	"log/slog"
	"strconv"

	"github.com/lixenwraith/cellterm/terminfo"
)

// keyValue is what a complete byte sequence decodes to
type keyValue struct {
	mod Modifier
	key Key
	ch  rune
}

// keyNode is one byte of a registered sequence. A node owns its children;
// the trie is rebuilt wholesale, never edited.
type keyNode struct {
	b        byte
	children []*keyNode
	value    keyValue
	terminal bool
}

func (n *keyNode) child(b byte) *keyNode {
	for _, c := range n.children {
		if c.b == b {
			return c
		}
	}
	return nil
}

// keyTrie maps input byte sequences to keys
type keyTrie struct {
	root keyNode
}

// insert adds seq, creating nodes for the unmatched suffix.
// A sequence already present has its value overwritten.
func (t *keyTrie) insert(seq []byte, v keyValue) {
	if len(seq) == 0 {
		return
	}
	node := &t.root
	for _, b := range seq {
		next := node.child(b)
		if next == nil {
			next = &keyNode{b: b}
			node.children = append(node.children, next)
		}
		node = next
	}
	node.value = v
	node.terminal = true
}

// decode walks data from the root and returns the length and value of the
// first terminal node reached. Zero means no match or an incomplete prefix.
func (t *keyTrie) decode(data []byte) (int, keyValue) {
	node := &t.root
	for i, b := range data {
		node = node.child(b)
		if node == nil {
			return 0, keyValue{}
		}
		if node.terminal {
			return i + 1, node.value
		}
	}
	return 0, keyValue{}
}

// isPrefix reports whether data is a strict prefix of a registered sequence
func (t *keyTrie) isPrefix(data []byte) bool {
	node := &t.root
	for _, b := range data {
		node = node.child(b)
		if node == nil || node.terminal {
			return false
		}
	}
	return len(data) > 0
}

// keyDescriptor registers either a terminfo input capability (capIndex >= 0)
// or a literal sequence
type keyDescriptor struct {
	capIndex int
	capName  string
	seq      string
	value    keyValue
}

func capKey(index int, name string, k Key) keyDescriptor {
	return keyDescriptor{capIndex: index, capName: name, value: keyValue{key: k}}
}

func literalKey(seq string, mod Modifier, k Key) keyDescriptor {
	return keyDescriptor{capIndex: -1, seq: seq, value: keyValue{mod: mod, key: k}}
}

// keyDescriptors lists every registered key; terminfo entries come first so
// literals win on collision
var keyDescriptors = buildKeyDescriptors()

func buildKeyDescriptors() []keyDescriptor {
	d := []keyDescriptor{
		capKey(terminfo.KeyF1, "kf1", KeyF1),
		capKey(terminfo.KeyF2, "kf2", KeyF2),
		capKey(terminfo.KeyF3, "kf3", KeyF3),
		capKey(terminfo.KeyF4, "kf4", KeyF4),
		capKey(terminfo.KeyF5, "kf5", KeyF5),
		capKey(terminfo.KeyF6, "kf6", KeyF6),
		capKey(terminfo.KeyF7, "kf7", KeyF7),
		capKey(terminfo.KeyF8, "kf8", KeyF8),
		capKey(terminfo.KeyF9, "kf9", KeyF9),
		capKey(terminfo.KeyF10, "kf10", KeyF10),
		capKey(terminfo.KeyF11, "kf11", KeyF11),
		capKey(terminfo.KeyF12, "kf12", KeyF12),
		capKey(terminfo.KeyIC, "kich1", KeyInsert),
		capKey(terminfo.KeyDC, "kdch1", KeyDelete),
		capKey(terminfo.KeyHome, "khome", KeyHome),
		capKey(terminfo.KeyEnd, "kend", KeyEnd),
		capKey(terminfo.KeyPPage, "kpp", KeyPageUp),
		capKey(terminfo.KeyNPage, "knp", KeyPageDown),
		capKey(terminfo.KeyUp, "kcuu1", KeyUp),
		capKey(terminfo.KeyDown, "kcud1", KeyDown),
		capKey(terminfo.KeyLeft, "kcub1", KeyLeft),
		capKey(terminfo.KeyRight, "kcuf1", KeyRight),
		capKey(terminfo.KeyBackspace, "kbs", KeyBackspace),
		capKey(terminfo.KeyBTab, "kcbt", KeyBacktab),

		literalKey("\x00", ModNone, KeyCtrlSpace),
		literalKey("\x08", ModNone, KeyBackspace),
		literalKey("\x09", ModNone, KeyTab),
		literalKey("\x0a", ModNone, KeyEnter),
		literalKey("\x0d", ModNone, KeyEnter),
		literalKey("\x1c", ModNone, KeyCtrlBackslash),
		literalKey("\x1d", ModNone, KeyCtrlBracketRight),
		literalKey("\x1e", ModNone, KeyCtrlCaret),
		literalKey("\x1f", ModNone, KeyCtrlUnderscore),
		literalKey("\x7f", ModNone, KeyBackspace),
		literalKey("\x1b[Z", ModShift, KeyBacktab),
		// A doubled escape is Alt+Escape, never the start of a sequence
		literalKey("\x1b\x1b", ModAlt, KeyEscape),
	}

	// Ctrl+letter, skipping codes claimed above (BS, HT, LF, CR)
	for c := byte(0x01); c <= 0x1a; c++ {
		switch c {
		case 0x08, 0x09, 0x0a, 0x0d:
			continue
		}
		d = append(d, literalKey(string([]byte{c}), ModNone, KeyCtrlA+Key(c-1)))
	}

	// xterm modified arrows: ESC [ 1 ; <1+mods> <A-D>
	arrows := []struct {
		final byte
		key   Key
	}{{'A', KeyUp}, {'B', KeyDown}, {'C', KeyRight}, {'D', KeyLeft}}
	for param := 2; param <= 8; param++ {
		mod := Modifier(param-1) & modMask
		for _, a := range arrows {
			seq := "\x1b[1;" + strconv.Itoa(param) + string(a.final)
			d = append(d, literalKey(seq, mod, a.key))
		}
	}
	return d
}

// buildKeyTrie creates a fresh trie from db and the fixed descriptors
func buildKeyTrie(db *terminfo.Database, log *slog.Logger) *keyTrie {
	t := &keyTrie{}
	for _, d := range keyDescriptors {
		if d.capIndex < 0 {
			t.insert([]byte(d.seq), d.value)
			continue
		}
		s, ok := db.String(d.capIndex)
		if !ok || s == "" {
			log.Debug("key capability missing, not decoded", "cap", d.capName, "key", d.value.key)
			continue
		}
		t.insert([]byte(s), d.value)
	}
	return t
}
