package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// ExistKey is the reserved property signaling whether the resource exists.
// Every actual-state document carries it as a boolean.
const ExistKey = "_exist"

// Document is an open-ended key/value payload describing desired or observed
// resource state. Values are restricted to the kinds produced by Parse:
// string, json.Number, bool, nil, Document-shaped maps, and []any. Keeping
// the value set closed makes equality a type switch rather than reflection.
type Document map[string]any

// Parse decodes a JSON object into a Document. Numbers are kept as
// json.Number so they round-trip without float coercion. An empty payload or
// a top-level value that is not an object is rejected.
func Parse(raw string) (Document, error) {
	if len(bytes.TrimSpace([]byte(raw))) == 0 {
		return nil, fmt.Errorf("input document is empty")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("input document is not valid JSON: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("input document must be a JSON object")
	}

	// Reject trailing content after the object.
	if err := checkTrailing(dec); err != nil {
		return nil, err
	}

	return doc, nil
}

func checkTrailing(dec *json.Decoder) error {
	if _, err := dec.Token(); err != io.EOF {
		return fmt.Errorf("input document has trailing content after the JSON object")
	}
	return nil
}

// Clone returns a shallow copy. Nested values are shared; callers that need
// isolation mutate only top-level keys.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	copied := make(Document, len(d))
	for key, value := range d {
		copied[key] = value
	}
	return copied
}

// Exist reports the document's _exist value and whether it is present.
// A non-boolean _exist counts as absent.
func (d Document) Exist() (bool, bool) {
	value, present := d[ExistKey]
	if !present {
		return false, false
	}
	flag, ok := value.(bool)
	if !ok {
		return false, false
	}
	return flag, true
}

// EnsureExist returns a copy of the document guaranteed to carry a boolean
// _exist, defaulting to the supplied value when absent.
func (d Document) EnsureExist(def bool) Document {
	if d == nil {
		return Document{ExistKey: def}
	}
	if _, present := d.Exist(); present {
		return d
	}
	copied := d.Clone()
	copied[ExistKey] = def
	return copied
}

// NotFoundState is the canonical document for a resource that could not be
// located: _exist false, nothing else.
func NotFoundState() Document {
	return Document{ExistKey: false}
}

// Equal compares two values across the closed value set. Numbers compare
// numerically regardless of representation, so 1, 1.0 and json.Number("1")
// are equal. Maps compare by key set and per-key value; slices by element
// order.
func Equal(a, b any) bool {
	if aNum, ok := numericValue(a); ok {
		bNum, ok := numericValue(b)
		return ok && aNum == bNum
	}

	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case map[string]any:
		return mapEqual(av, b)
	case Document:
		return mapEqual(av, b)
	default:
		return false
	}
}

func mapEqual(a map[string]any, b any) bool {
	var bm map[string]any
	switch bv := b.(type) {
	case map[string]any:
		bm = bv
	case Document:
		bm = bv
	default:
		return false
	}
	if len(a) != len(bm) {
		return false
	}
	for key, value := range a {
		other, present := bm[key]
		if !present || !Equal(value, other) {
			return false
		}
	}
	return true
}

func numericValue(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// AbsentKeyPolicy controls how properties missing from the desired document
// are treated when diffing against observed state.
type AbsentKeyPolicy string

const (
	// AbsentIgnore treats a key missing from the desired document as
	// unconstrained: only desired keys are compared.
	AbsentIgnore AbsentKeyPolicy = "ignore"
	// AbsentExpect treats a key missing from the desired document as an
	// expectation that the observed state does not carry it either.
	AbsentExpect AbsentKeyPolicy = "expect_absent"
)

// Diff returns the sorted set of property names whose desired value differs
// from the observed value. A desired key absent from the observed document
// always counts as differing. Under AbsentExpect, observed keys missing from
// the desired document also count, except _exist, whose absence is an
// expectation default rather than "expect absent".
func Diff(desired, observed Document, policy AbsentKeyPolicy) []string {
	differing := make([]string, 0)

	for key, want := range desired {
		got, present := observed[key]
		if !present || !Equal(want, got) {
			differing = append(differing, key)
		}
	}

	if policy == AbsentExpect {
		for key := range observed {
			if key == ExistKey {
				continue
			}
			if _, present := desired[key]; !present {
				differing = append(differing, key)
			}
		}
	}

	sort.Strings(differing)
	return differing
}
