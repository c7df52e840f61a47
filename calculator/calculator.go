/*
Package calculator implements the four-function calculator used to work out
a value before it is added to a list.

PURPOSE:
  A Session is the state of one calculator overlay. It is a plain value:
  every input returns a new Session, nothing is mutated in place, and a
  fresh Session is created each time the overlay opens.

PHASES:
  Entry                  accumulating digits into the display
  AwaitingOperator       "=" just produced a result on the display
  AwaitingSecondOperand  an operator is pending; the next digit starts a new number
  Error                  a computation produced a non-finite result

RULES:
  - Operators chain left to right with no precedence: 1 + 2 * 3 = 9.
  - An operator pressed right after another replaces it: 5 + * 3 = 15.
  - "=" finalizes the pending operation and clears it; no repeat-equals.
  - In Error only Clear, Backspace (acts as Clear), Digit and Decimal
    (which clear first) do anything.
  - Entry is capped at MaxDigits characters.

SEE ALSO:
  - keys.go: keyboard mapping to Input values
  - format.go: display formatting for computed results
*/
package calculator

import (
	"math"
	"strconv"
	"strings"
)

// MaxDigits caps the length of the display while typing a number.
const MaxDigits = 15

// =============================================================================
// OPERATORS
// =============================================================================

// Operator is one of the four binary operations.
type Operator byte

const (
	NoOp     Operator = 0
	Add      Operator = '+'
	Subtract Operator = '-'
	Multiply Operator = '*'
	Divide   Operator = '/'
)

// Symbol returns the glyph shown on the calculator keys.
func (op Operator) Symbol() string {
	switch op {
	case Add:
		return "+"
	case Subtract:
		return "-"
	case Multiply:
		return "×"
	case Divide:
		return "÷"
	default:
		return ""
	}
}

func (op Operator) String() string {
	if op == NoOp {
		return ""
	}
	return string(rune(op))
}

// Apply computes a op b. Division by zero yields ±Inf or NaN, never a panic.
func (op Operator) Apply(a, b float64) float64 {
	switch op {
	case Add:
		return a + b
	case Subtract:
		return a - b
	case Multiply:
		return a * b
	case Divide:
		return a / b
	default:
		return b
	}
}

// =============================================================================
// PHASE
// =============================================================================

// Phase is the tagged state of a Session.
type Phase int

const (
	Entry Phase = iota
	AwaitingOperator
	AwaitingSecondOperand
	Error
)

func (p Phase) String() string {
	switch p {
	case Entry:
		return "entry"
	case AwaitingOperator:
		return "awaiting_operator"
	case AwaitingSecondOperand:
		return "awaiting_second_operand"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Session is the state of one calculator overlay.
type Session struct {
	display  string
	pending  Operator
	first    float64
	hasFirst bool
	awaiting bool
	err      bool
	computed bool

	// expression is the history line shown above the display.
	expression string
}

// New returns a session in its initial state.
func New() Session {
	return Session{display: "0"}
}

// Display returns the edit buffer.
func (s Session) Display() string {
	return s.display
}

// Expression returns the history line ("5 *", "1 + 2 =").
func (s Session) Expression() string {
	return s.expression
}

// Pending returns the pending operator, or NoOp.
func (s Session) Pending() Operator {
	return s.pending
}

// FirstOperand returns the stored left operand, if any.
func (s Session) FirstOperand() (float64, bool) {
	return s.first, s.hasFirst
}

// Awaiting reports whether the next digit starts a new operand.
func (s Session) Awaiting() bool {
	return s.awaiting
}

// Failed reports whether the session is in the Error phase.
func (s Session) Failed() bool {
	return s.err
}

// Phase derives the tagged phase from the session fields.
func (s Session) Phase() Phase {
	switch {
	case s.err:
		return Error
	case s.awaiting:
		return AwaitingSecondOperand
	case s.computed:
		return AwaitingOperator
	default:
		return Entry
	}
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// Digit types one digit '0'..'9'. Other bytes are ignored.
func (s Session) Digit(d byte) Session {
	if d < '0' || d > '9' {
		return s
	}
	if s.err {
		s = s.Clear()
	}
	if len(s.display) >= MaxDigits && !s.awaiting {
		return s
	}

	s.computed = false
	if s.awaiting {
		s.display = string(d)
		s.awaiting = false
		return s
	}
	if s.display == "0" {
		s.display = string(d)
	} else {
		s.display += string(d)
	}
	return s
}

// Decimal types the decimal point. A second point is ignored.
func (s Session) Decimal() Session {
	if s.err {
		s = s.Clear()
	}
	s.computed = false
	if s.awaiting {
		s.display = "0."
		s.awaiting = false
		return s
	}
	if !strings.Contains(s.display, ".") {
		s.display += "."
	}
	return s
}

// Operator sets the pending operator, computing any operation already pending.
func (s Session) Operator(op Operator) Session {
	if s.err || op == NoOp {
		return s
	}

	// Override: a second operator before any digit just replaces the first.
	if s.pending != NoOp && s.awaiting {
		s.pending = op
		s.expression = formatOperand(s.first) + " " + op.String()
		return s
	}

	input := parseDisplay(s.display)
	if !s.hasFirst {
		s.first = input
		s.hasFirst = true
	} else if s.pending != NoOp {
		result := s.pending.Apply(s.first, input)
		if !finite(result) {
			return s.fail()
		}
		s.display = FormatResult(result)
		s.first = result
	}

	s.computed = false
	s.awaiting = true
	s.pending = op
	s.expression = formatOperand(s.first) + " " + op.String()
	return s
}

// Equals finalizes the pending operation. Without a complete operation it
// does nothing.
func (s Session) Equals() Session {
	if s.err || s.pending == NoOp || s.awaiting || !s.hasFirst {
		return s
	}

	second := parseDisplay(s.display)
	result := s.pending.Apply(s.first, second)
	if !finite(result) {
		return s.fail()
	}

	s.expression = formatOperand(s.first) + " " + s.pending.String() + " " + formatOperand(second) + " ="
	s.display = FormatResult(result)
	s.first = 0
	s.hasFirst = false
	s.pending = NoOp
	s.awaiting = false
	s.computed = true
	return s
}

// Clear resets the session to its initial state.
func (s Session) Clear() Session {
	return New()
}

// Backspace deletes the last typed character.
func (s Session) Backspace() Session {
	if s.err {
		return s.Clear()
	}
	if s.awaiting {
		return s
	}
	s.computed = false
	if len(s.display) <= 1 {
		s.display = "0"
		return s
	}
	s.display = s.display[:len(s.display)-1]
	if s.display == "-" {
		s.display = "0"
	}
	return s
}

// Commit returns the value on the display when it can be used.
func (s Session) Commit() (float64, bool) {
	if s.err {
		return 0, false
	}
	v, err := strconv.ParseFloat(s.display, 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

// fail enters the Error phase. The display keeps its text but surfaces
// render the error indicator instead.
func (s Session) fail() Session {
	s.err = true
	s.expression = ""
	s.first = 0
	s.hasFirst = false
	s.pending = NoOp
	s.awaiting = false
	s.computed = false
	return s
}

// =============================================================================
// HELPERS
// =============================================================================

func parseDisplay(display string) float64 {
	v, err := strconv.ParseFloat(display, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
