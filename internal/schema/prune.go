package schema

import "reflect"

// PruneInstance removes every instance field still carrying the Unset
// marker. The map is modified in place and returned for convenience.
func PruneInstance(inst Record) Record {
	for k, v := range inst {
		if IsUnset(v) {
			delete(inst, k)
		}
	}
	return inst
}

// PruneRecord removes unset and empty fields from a record, recursing into
// nested blocks, and reports whether everything other than "instances" was
// removed. The "instances" field is never removed and never counts toward
// emptiness: a sample with zero annotations must stay distinguishable from
// a sample whose annotations were never supplied. Idempotent.
func PruneRecord(rec Record) (Record, bool) {
	empty := true
	for k, v := range rec {
		if k == "instances" {
			continue
		}
		switch val := v.(type) {
		case unsetValue:
			delete(rec, k)
		case Record:
			if _, subEmpty := PruneRecord(val); subEmpty {
				delete(rec, k)
			} else {
				empty = false
			}
		case map[string]any:
			if _, subEmpty := PruneRecord(Record(val)); subEmpty {
				delete(rec, k)
			} else {
				empty = false
			}
		default:
			if n, ok := lengthOf(v); ok {
				if n == 0 {
					delete(rec, k)
				} else {
					empty = false
				}
			} else {
				empty = false
			}
		}
	}
	return rec, empty
}

// lengthOf returns the length of v when it is a slice or array.
func lengthOf(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len(), true
	}
	return 0, false
}
