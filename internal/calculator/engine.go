package calculator

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"calculator-widget/internal/tone"
)

// ErrorMarker replaces the display when an evaluation fails.
const ErrorMarker = "Error"

// MultiplyGlyph is the multiplication sign carried by button labels. It is
// stored verbatim and rewritten to '*' on evaluation.
const MultiplyGlyph = '×'

// State is the engine's coarse input state.
type State int

const (
	// StateEntering is normal append/delete input.
	StateEntering State = iota
	// StateResult follows a successful evaluation.
	StateResult
	// StateError follows a failed evaluation until the display is cleared.
	StateError
)

func (s State) String() string {
	switch s {
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return "entering"
	}
}

// Outcome reports what Evaluate did. Err is nil on success and otherwise
// wraps ErrMalformedExpression or ErrNonFiniteResult.
type Outcome struct {
	Display  string
	Value    float64
	Err      error
	Feedback tone.Tag
}

// OK reports whether the evaluation produced a number.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Engine holds a single calculator expression. It is not safe for concurrent
// use; shells serialise access.
type Engine struct {
	input string
	reset bool
	state State

	last    float64
	hasLast bool
}

// NewEngine returns an engine displaying "0".
func NewEngine() *Engine {
	return &Engine{input: "0"}
}

// Display returns the current expression or result text.
func (e *Engine) Display() string {
	return e.input
}

// State returns the engine's input state.
func (e *Engine) State() State {
	return e.state
}

// LastResult returns the most recent successful result since the last Clear.
func (e *Engine) LastResult() (float64, bool) {
	return e.last, e.hasLast
}

// Append applies one input token. Tokens outside the alphabet return
// ErrUnsupportedToken and leave the engine untouched; tokens that break a
// buffer invariant are dropped silently.
func (e *Engine) Append(token rune) error {
	if !IsToken(token) {
		return fmt.Errorf("%w: %q", ErrUnsupportedToken, token)
	}

	if e.reset {
		e.input = ""
		e.reset = false
	}
	e.state = StateEntering

	switch {
	case token == '.':
		if !strings.ContainsRune(numericRun(e.input), '.') {
			e.input += "."
		}
	case IsOperator(token):
		if last, ok := lastRune(e.input); ok && !IsOperator(last) {
			e.input += string(token)
		}
	case e.input == "0":
		e.input = string(token)
	default:
		e.input += string(token)
	}

	// An operator straight after a result is dropped against an empty buffer.
	if e.input == "" {
		e.input = "0"
	}
	return nil
}

// Clear resets the display to "0" and forgets the previous result.
func (e *Engine) Clear() {
	e.input = "0"
	e.reset = false
	e.state = StateEntering
	e.last, e.hasLast = 0, false
}

// DeleteLast removes the final character; a single character becomes "0".
func (e *Engine) DeleteLast() {
	e.state = StateEntering
	if utf8.RuneCountInString(e.input) <= 1 {
		e.input = "0"
		return
	}
	_, size := utf8.DecodeLastRuneInString(e.input)
	e.input = e.input[:len(e.input)-size]
}

// Evaluate computes the buffer. On success the formatted result replaces the
// buffer; on failure the buffer shows ErrorMarker. Either way the next Append
// starts a fresh expression.
func (e *Engine) Evaluate() (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = e.fail(fmt.Errorf("%w: evaluator fault: %v", ErrMalformedExpression, r))
		}
	}()

	v, err := EvaluateExpression(e.input)
	if err != nil {
		return e.fail(err)
	}

	e.input = FormatResult(v)
	e.reset = true
	e.state = StateResult
	e.last, e.hasLast = v, true

	return Outcome{Display: e.input, Value: v, Feedback: tone.Equals}
}

func (e *Engine) fail(err error) Outcome {
	e.input = ErrorMarker
	e.reset = true
	e.state = StateError
	return Outcome{Display: e.input, Err: err, Feedback: tone.Error}
}

// IsToken reports whether r belongs to the input alphabet.
func IsToken(r rune) bool {
	return isDigit(r) || r == '.' || IsOperator(r)
}

// IsOperator reports whether r is an operator token, including '%'.
func IsOperator(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', MultiplyGlyph:
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// numericRun returns the suffix of s after its last operator.
func numericRun(s string) string {
	i := strings.LastIndexFunc(s, IsOperator)
	if i < 0 {
		return s
	}
	_, size := utf8.DecodeRuneInString(s[i:])
	return s[i+size:]
}

func lastRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeLastRuneInString(s)
	return r, true
}
