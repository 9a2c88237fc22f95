package linecode

// Symbol is one physical line symbol. Levels use 'H'/'L', binary
// codes use '0'/'1'. Any other byte is carried through unchanged so a
// corrupted signal can still be rendered and rejected by decode.
type Symbol byte

const (
	High Symbol = 'H'
	Low  Symbol = 'L'
	Zero Symbol = '0'
	One  Symbol = '1'
)

// Alphabet identifies the symbol set a scheme emits
type Alphabet int

const (
	// Levels is the {H, L} voltage-level alphabet
	Levels Alphabet = iota
	// Binary is the {0, 1} transition/codeword alphabet
	Binary
)

func (a Alphabet) String() string {
	switch a {
	case Levels:
		return "levels"
	case Binary:
		return "binary"
	default:
		return "unknown"
	}
}

// upper folds lowercase level symbols
func (s Symbol) upper() Symbol {
	if s >= 'a' && s <= 'z' {
		return s - ('a' - 'A')
	}
	return s
}

// FlipLevel toggles H<->L (case-insensitive). Other symbols are unchanged.
func (s Symbol) FlipLevel() Symbol {
	switch s.upper() {
	case High:
		return Low
	case Low:
		return High
	}
	return s
}

// FlipBinary toggles 0<->1. Other symbols are unchanged.
func (s Symbol) FlipBinary() Symbol {
	switch s {
	case Zero:
		return One
	case One:
		return Zero
	}
	return s
}

// Signal is an encoded symbol sequence
type Signal []Symbol

// ParseSignal keeps the raw characters; validation happens on decode
func ParseSignal(s string) Signal {
	sig := make(Signal, len(s))
	for i := 0; i < len(s); i++ {
		sig[i] = Symbol(s[i])
	}
	return sig
}

func (s Signal) String() string {
	b := make([]byte, len(s))
	for i, sym := range s {
		b[i] = byte(sym)
	}
	return string(b)
}

// Clone returns the private working copy noise is applied to
func (s Signal) Clone() Signal {
	if s == nil {
		return nil
	}
	out := make(Signal, len(s))
	copy(out, s)
	return out
}

// Transitions counts adjacent symbol pairs that differ
func (s Signal) Transitions() int {
	n := 0
	for i := 1; i < len(s); i++ {
		if s[i].upper() != s[i-1].upper() {
			n++
		}
	}
	return n
}
