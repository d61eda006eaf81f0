package calculator

import (
	"errors"
	"testing"

	"calculator-widget/internal/tone"
)

func appendAll(t *testing.T, e *Engine, tokens string) {
	t.Helper()
	for _, r := range tokens {
		if err := e.Append(r); err != nil {
			t.Fatalf("appending %q: %v", r, err)
		}
	}
}

func TestNewEngineDisplaysZero(t *testing.T) {
	e := NewEngine()
	if got := e.Display(); got != "0" {
		t.Fatalf("expected display %q, got %q", "0", got)
	}
	if e.State() != StateEntering {
		t.Fatalf("expected state entering, got %s", e.State())
	}
}

func TestAppend(t *testing.T) {
	tests := []struct {
		name   string
		tokens string
		want   string
	}{
		{name: "leading zero replaced", tokens: "05", want: "5"},
		{name: "zeros collapse", tokens: "000", want: "0"},
		{name: "digits extend", tokens: "123", want: "123"},
		{name: "second dot in run dropped", tokens: "1.2.3", want: "1.23"},
		{name: "dot allowed in next run", tokens: "1.5+2.5", want: "1.5+2.5"},
		{name: "dot after zero", tokens: ".5", want: "0.5"},
		{name: "repeated operator dropped", tokens: "1++", want: "1+"},
		{name: "different operator dropped", tokens: "1+*", want: "1+"},
		{name: "operator after zero accepted", tokens: "+", want: "0+"},
		{name: "percent is an operator", tokens: "50%+", want: "50%"},
		{name: "multiply glyph", tokens: "2×3", want: "2×3"},
		{name: "glyph then operator dropped", tokens: "2×-", want: "2×"},
		{name: "dot after glyph starts new run", tokens: "1.5×.5", want: "1.5×.5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			appendAll(t, e, tc.tokens)
			if got := e.Display(); got != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAppendRejectsUnsupportedToken(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "12")

	for _, r := range []rune{'a', '(', ' ', '=', '÷'} {
		err := e.Append(r)
		if !errors.Is(err, ErrUnsupportedToken) {
			t.Fatalf("token %q: expected ErrUnsupportedToken, got %v", r, err)
		}
	}

	if got := e.Display(); got != "12" {
		t.Fatalf("expected display unchanged %q, got %q", "12", got)
	}
}

func TestUnsupportedTokenKeepsResetFlag(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "2+2")
	e.Evaluate()

	_ = e.Append('x')
	appendAll(t, e, "7")

	if got := e.Display(); got != "7" {
		t.Fatalf("expected fresh buffer %q, got %q", "7", got)
	}
}

func TestDeleteLast(t *testing.T) {
	tests := []struct {
		start string
		want  string
	}{
		{start: "", want: "0"},
		{start: "12", want: "1"},
		{start: "1", want: "0"},
		{start: "1+", want: "1"},
		{start: "2×", want: "2"},
	}

	for _, tc := range tests {
		t.Run(tc.start, func(t *testing.T) {
			e := NewEngine()
			appendAll(t, e, tc.start)
			e.DeleteLast()
			if got := e.Display(); got != tc.want {
				t.Fatalf("expected display %q, got %q", tc.want, got)
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{expr: "2+3*4", want: "14"},
		{expr: "50%", want: "0.5"},
		{expr: "0.1+0.2", want: "0.3"},
		{expr: "10/4", want: "2.5"},
		{expr: "1/3", want: "0.33333333"},
		{expr: "2×3", want: "6"},
		{expr: "7", want: "7"},
		{expr: "3-5", want: "-2"},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			e := NewEngine()
			appendAll(t, e, tc.expr)

			out := e.Evaluate()
			if !out.OK() {
				t.Fatalf("expected success, got %v", out.Err)
			}
			if out.Display != tc.want || e.Display() != tc.want {
				t.Fatalf("expected display %q, got outcome %q engine %q", tc.want, out.Display, e.Display())
			}
			if out.Feedback != tone.Equals {
				t.Fatalf("expected feedback %q, got %q", tone.Equals, out.Feedback)
			}
			if e.State() != StateResult {
				t.Fatalf("expected state result, got %s", e.State())
			}
			if v, ok := e.LastResult(); !ok || v != out.Value {
				t.Fatalf("expected last result %g, got %g (ok=%t)", out.Value, v, ok)
			}
		})
	}
}

func TestEvaluateFailures(t *testing.T) {
	tests := []struct {
		expr string
		want error
	}{
		{expr: "5/0", want: ErrNonFiniteResult},
		{expr: "0/0", want: ErrNonFiniteResult},
		{expr: "5+", want: ErrMalformedExpression},
		{expr: "2.5%", want: ErrMalformedExpression},
		{expr: "9-", want: ErrMalformedExpression},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			e := NewEngine()
			appendAll(t, e, tc.expr)

			out := e.Evaluate()
			if !errors.Is(out.Err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, out.Err)
			}
			if e.Display() != ErrorMarker {
				t.Fatalf("expected display %q, got %q", ErrorMarker, e.Display())
			}
			if out.Feedback != tone.Error {
				t.Fatalf("expected feedback %q, got %q", tone.Error, out.Feedback)
			}
			if e.State() != StateError {
				t.Fatalf("expected state error, got %s", e.State())
			}
		})
	}
}

func TestEvaluateErrorMarkerAgainFails(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "5/0")
	e.Evaluate()

	out := e.Evaluate()
	if !errors.Is(out.Err, ErrMalformedExpression) {
		t.Fatalf("expected ErrMalformedExpression, got %v", out.Err)
	}
}

func TestAppendAfterResultStartsFresh(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "2+3")
	e.Evaluate()

	appendAll(t, e, "7")
	if got := e.Display(); got != "7" {
		t.Fatalf("expected %q, got %q", "7", got)
	}
	if e.State() != StateEntering {
		t.Fatalf("expected state entering, got %s", e.State())
	}
}

func TestAppendAfterErrorStartsFresh(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "1/0")
	e.Evaluate()

	appendAll(t, e, "4")
	if got := e.Display(); got != "4" {
		t.Fatalf("expected %q, got %q", "4", got)
	}
}

func TestOperatorAfterResultKeepsBufferNonEmpty(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "2+3")
	e.Evaluate()

	appendAll(t, e, "+")
	if got := e.Display(); got != "0" {
		t.Fatalf("expected %q, got %q", "0", got)
	}
}

func TestDeleteLastOnNegativeResult(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "3-5")
	e.Evaluate()

	e.DeleteLast()
	if got := e.Display(); got != "-" {
		t.Fatalf("expected %q, got %q", "-", got)
	}
}

func TestDeleteLastOnErrorMarker(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "5/0")
	e.Evaluate()

	e.DeleteLast()
	if got := e.Display(); got != "Erro" {
		t.Fatalf("expected %q, got %q", "Erro", got)
	}
	if err := e.Append('7'); err != nil {
		t.Fatalf("append: %v", err)
	}
	if got := e.Display(); got != "7" {
		t.Fatalf("expected reset flag to survive delete, got %q", got)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "9*9")
	e.Evaluate()

	e.Clear()
	once := *e
	e.Clear()

	if *e != once {
		t.Fatalf("expected identical state after second clear, got %+v vs %+v", *e, once)
	}
	if e.Display() != "0" {
		t.Fatalf("expected display %q, got %q", "0", e.Display())
	}
	if _, ok := e.LastResult(); ok {
		t.Fatal("expected previous result to be dropped")
	}
}

func TestClearDropsResetFlag(t *testing.T) {
	e := NewEngine()
	appendAll(t, e, "1+1")
	e.Evaluate()
	e.Clear()

	appendAll(t, e, "3")
	if got := e.Display(); got != "3" {
		t.Fatalf("expected %q, got %q", "3", got)
	}
}
