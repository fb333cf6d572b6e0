package dfa

// Entry declares the outgoing transitions of a single state. It has two
// forms: a full per-symbol mapping built with Moves, which must cover the
// whole alphabet, and a shorthand built with Fallback, which routes every
// symbol absent from its partial mapping to a default state. The form is
// resolved once during construction; queries always run against the
// expanded table.
//
// The zero value behaves like Moves(nil): an empty full mapping, which is
// only valid when the alphabet is empty.
type Entry struct {
	moves     map[Symbol]State
	fallback  State
	shorthand bool
}

// Moves returns a full-form entry. Construction fails unless moves covers
// every alphabet symbol exactly.
func Moves(moves map[Symbol]State) Entry {
	return Entry{moves: cloneMoves(moves)}
}

// Fallback returns a shorthand entry: symbols listed in partial follow the
// partial mapping, all remaining alphabet symbols transition to def.
// partial may be nil or empty, in which case every symbol goes to def.
func Fallback(partial map[Symbol]State, def State) Entry {
	return Entry{moves: cloneMoves(partial), fallback: def, shorthand: true}
}

func cloneMoves(moves map[Symbol]State) map[Symbol]State {
	if len(moves) == 0 {
		return nil
	}
	out := make(map[Symbol]State, len(moves))
	for sym, target := range moves {
		out[sym] = target
	}
	return out
}
