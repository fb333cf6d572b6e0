package definition

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/arvholm/espalier/pkg/dfa"
)

// InvalidSymbolError reports an alphabet entry that is not exactly one
// character.
type InvalidSymbolError struct {
	Value string
}

func (e *InvalidSymbolError) Error() string {
	return fmt.Sprintf("alphabet entry %q is not a single character", e.Value)
}

// Decode parses a YAML or JSON document into a Definition. JSON needs no
// special casing since every JSON document is valid YAML.
func Decode(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}
	for state, raw := range def.Transitions {
		def.Transitions[state] = normalizeValue(raw)
	}
	return &def, nil
}

// DecodeFile reads and decodes the definition document at path.
func DecodeFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definition: %w", err)
	}
	def, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// ResolveEntry turns the document form of one state's transitions into a
// typed entry. Three shapes are accepted:
//
//   - a mapping from symbols to states: {"0": q1, "1": q2}
//   - a two-element sequence [partial mapping, default state]
//   - a mapping with a default key: {map: {"0": q1}, default: q2}
//
// The "map" and "default" keys cannot collide with symbols because symbols
// are single characters. Anything else, including non-string transition
// targets, is reported with the construction error taxonomy.
func ResolveEntry(state dfa.State, raw any) (dfa.Entry, error) {
	switch v := normalizeValue(raw).(type) {
	case map[string]any:
		_, hasDefault := v["default"]
		_, hasMap := v["map"]
		if hasDefault || hasMap {
			return resolveShorthandDoc(state, v)
		}
		moves, err := resolveMoves(state, v)
		if err != nil {
			return dfa.Entry{}, err
		}
		return dfa.Moves(moves), nil
	case []any:
		if len(v) != 2 {
			return dfa.Entry{}, &dfa.MalformedEntryError{State: state, Kind: fmt.Sprintf("a sequence of %d elements", len(v))}
		}
		partial, ok := v[0].(map[string]any)
		if !ok && v[0] != nil {
			return dfa.Entry{}, &dfa.MalformedEntryError{State: state, Kind: fmt.Sprintf("a pair whose first element is %s", describe(v[0]))}
		}
		def, ok := v[1].(string)
		if !ok {
			return dfa.Entry{}, &dfa.MalformedEntryError{State: state, Kind: fmt.Sprintf("a pair whose default is %s", describe(v[1]))}
		}
		moves, err := resolveMoves(state, partial)
		if err != nil {
			return dfa.Entry{}, err
		}
		return dfa.Fallback(moves, dfa.State(def)), nil
	default:
		return dfa.Entry{}, &dfa.MalformedEntryError{State: state, Kind: describe(v)}
	}
}

type shorthandDoc struct {
	Map     map[string]any `mapstructure:"map"`
	Default string         `mapstructure:"default"`
}

func resolveShorthandDoc(state dfa.State, raw map[string]any) (dfa.Entry, error) {
	var doc shorthandDoc
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      &doc,
		ErrorUnused: true,
	})
	if err != nil {
		return dfa.Entry{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return dfa.Entry{}, &dfa.MalformedEntryError{State: state, Kind: "an invalid shorthand mapping"}
	}
	moves, err := resolveMoves(state, doc.Map)
	if err != nil {
		return dfa.Entry{}, err
	}
	return dfa.Fallback(moves, dfa.State(doc.Default)), nil
}

// resolveMoves converts a document mapping into typed moves. Keys are
// visited in sorted order so the first offending key is stable.
func resolveMoves(state dfa.State, raw map[string]any) (map[dfa.Symbol]dfa.State, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	moves := make(map[dfa.Symbol]dfa.State, len(raw))
	for _, k := range keys {
		sym, err := symbolOf(k)
		if err != nil {
			// A key that is not a single character can never be a member
			// of the alphabet.
			return nil, &dfa.UnknownSymbolError{State: state, Key: k}
		}
		target, ok := raw[k].(string)
		if !ok {
			return nil, &dfa.InvalidTransitionTypeError{State: state, Symbol: sym, Kind: describe(raw[k])}
		}
		moves[sym] = dfa.State(target)
	}
	return moves, nil
}

func symbolOf(s string) (dfa.Symbol, error) {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || size != len(s) || r == utf8.RuneError && size == 1 {
		return 0, &InvalidSymbolError{Value: s}
	}
	return dfa.Symbol(r), nil
}

// normalizeValue rewrites the map types the YAML decoder may produce into
// plain string-keyed maps, stringifying scalar keys, so that entries look
// the same whether they came from YAML, JSON or Go code.
func normalizeValue(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[k] = normalizeValue(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = normalizeValue(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = normalizeValue(val)
		}
		return out
	default:
		return v
	}
}

func describe(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return fmt.Sprintf("the string %q", v)
	case bool:
		return "a boolean"
	case int, int64, uint64, float32, float64:
		return "a number"
	case map[string]any:
		return "a mapping"
	case []any:
		return fmt.Sprintf("a sequence of %d elements", len(v))
	default:
		return fmt.Sprintf("a value of type %T", v)
	}
}
