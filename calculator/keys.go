package calculator

import "strings"

// Kind classifies an Input.
type Kind int

const (
	KeyDigit Kind = iota
	KeyDecimal
	KeyOperator
	KeyEquals
	KeyBackspace
	KeyClear
	// KeyClose closes the overlay without committing. Sessions ignore it;
	// the surface that owns the session discards it.
	KeyClose
)

// Input is one calculator key press.
type Input struct {
	Kind  Kind
	Digit byte
	Op    Operator
}

// ParseKey maps a keyboard key name to an Input. Key names follow the DOM
// KeyboardEvent.key values: "7", ".", "+", "Enter", "Backspace", "Delete",
// "Escape", "c".
func ParseKey(key string) (Input, bool) {
	if len(key) == 1 {
		b := key[0]
		switch {
		case b >= '0' && b <= '9':
			return Input{Kind: KeyDigit, Digit: b}, true
		case b == '.':
			return Input{Kind: KeyDecimal}, true
		case b == '+' || b == '-' || b == '*' || b == '/':
			return Input{Kind: KeyOperator, Op: Operator(b)}, true
		case b == '=':
			return Input{Kind: KeyEquals}, true
		}
	}

	switch key {
	case "Enter":
		return Input{Kind: KeyEquals}, true
	case "Backspace":
		return Input{Kind: KeyBackspace}, true
	case "Delete":
		return Input{Kind: KeyClear}, true
	case "Escape":
		return Input{Kind: KeyClose}, true
	}
	if strings.ToLower(key) == "c" {
		return Input{Kind: KeyClear}, true
	}
	return Input{}, false
}

// Apply feeds one input to the session.
func (s Session) Apply(in Input) Session {
	switch in.Kind {
	case KeyDigit:
		return s.Digit(in.Digit)
	case KeyDecimal:
		return s.Decimal()
	case KeyOperator:
		return s.Operator(in.Op)
	case KeyEquals:
		return s.Equals()
	case KeyBackspace:
		return s.Backspace()
	case KeyClear:
		return s.Clear()
	default:
		return s
	}
}

// Press parses and applies a sequence of key names. Unknown keys are
// skipped. It stops at the first Escape and reports it as closed.
func (s Session) Press(keys ...string) (next Session, closed bool) {
	for _, k := range keys {
		in, ok := ParseKey(k)
		if !ok {
			continue
		}
		if in.Kind == KeyClose {
			return s, true
		}
		s = s.Apply(in)
	}
	return s, false
}
