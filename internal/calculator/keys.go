package calculator

import (
	"unicode/utf8"

	"calculator-widget/internal/tone"
)

// Action is what a key press asks the engine to do.
type Action int

const (
	ActionNone Action = iota
	ActionAppend
	ActionEvaluate
	ActionClear
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionAppend:
		return "append"
	case ActionEvaluate:
		return "evaluate"
	case ActionClear:
		return "clear"
	case ActionDelete:
		return "delete"
	default:
		return "none"
	}
}

// MapKey translates a browser key name into an engine action. Single
// characters from the token alphabet append themselves; Enter and '='
// evaluate; Escape, 'c' and 'C' clear; Backspace deletes.
func MapKey(key string) (Action, rune) {
	switch key {
	case "Enter", "=":
		return ActionEvaluate, 0
	case "Escape", "c", "C":
		return ActionClear, 0
	case "Backspace":
		return ActionDelete, 0
	}

	if utf8.RuneCountInString(key) != 1 {
		return ActionNone, 0
	}
	r, _ := utf8.DecodeRuneInString(key)
	if !IsToken(r) {
		return ActionNone, 0
	}
	return ActionAppend, r
}

// TokenFeedback returns the cue for an appended token.
func TokenFeedback(token rune) tone.Tag {
	if IsOperator(token) {
		return tone.Operator
	}
	return tone.Digit
}
