package phab_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/wikimedia-sverige/project-start/phab"
)

func TestFlattenParameters_Transactions(t *testing.T) {
	parameters := map[string]any{
		"transactions": map[string]any{
			"0": map[string]any{"type": "name", "value": "X"},
		},
	}

	want := map[string]string{
		"transactions[0][type]":  "name",
		"transactions[0][value]": "X",
	}
	if got := phab.FlattenParameters(parameters); !reflect.DeepEqual(got, want) {
		t.Fatalf("FlattenParameters() = %v, want %v", got, want)
	}
}

func TestFlattenParameters_SlicesUseIndexSegments(t *testing.T) {
	parameters := map[string]any{
		"constraints": map[string]any{
			"ids": []any{12, 34},
		},
	}

	want := map[string]string{
		"constraints[ids][0]": "12",
		"constraints[ids][1]": "34",
	}
	if got := phab.FlattenParameters(parameters); !reflect.DeepEqual(got, want) {
		t.Fatalf("FlattenParameters() = %v, want %v", got, want)
	}
}

func TestFlattenParameters_DeepNesting(t *testing.T) {
	parameters := map[string]any{
		"a": map[string]any{
			"b": map[string]any{
				"c": "leaf",
			},
			"d": "shallow",
		},
	}

	want := map[string]string{
		"a[b][c]": "leaf",
		"a[d]":    "shallow",
	}
	if got := phab.FlattenParameters(parameters); !reflect.DeepEqual(got, want) {
		t.Fatalf("FlattenParameters() = %v, want %v", got, want)
	}
}

// Decoding the bracket paths must reconstruct the original structure, with
// scalar leaves in their string form and slices keyed by index.
func TestFlattenParameters_RoundTrip(t *testing.T) {
	parameters := map[string]any{
		"transactions": map[string]any{
			"0": map[string]any{"type": "name", "value": "WMSE-Project"},
			"1": map[string]any{"type": "description", "value": "About the project"},
			"2": map[string]any{"type": "parent", "value": "PHID-PROJ-ft7vbzykjs52i5vguajb"},
		},
		"constraints": map[string]any{
			"ids": []any{42},
		},
	}

	want := map[string]any{
		"transactions": map[string]any{
			"0": map[string]any{"type": "name", "value": "WMSE-Project"},
			"1": map[string]any{"type": "description", "value": "About the project"},
			"2": map[string]any{"type": "parent", "value": "PHID-PROJ-ft7vbzykjs52i5vguajb"},
		},
		"constraints": map[string]any{
			"ids": map[string]any{"0": "42"},
		},
	}

	flat := phab.FlattenParameters(parameters)
	rebuilt := map[string]any{}
	for key, value := range flat {
		assign(t, rebuilt, key, value)
	}
	if !reflect.DeepEqual(rebuilt, want) {
		t.Fatalf("round trip = %v, want %v", rebuilt, want)
	}
}

// assign walks a bracket path like "transactions[0][type]" and writes the
// value at the addressed position.
func assign(t *testing.T, root map[string]any, key, value string) {
	t.Helper()
	open := strings.IndexByte(key, '[')
	if open < 0 {
		t.Fatalf("key %q has no bracket path", key)
	}
	segments := []string{key[:open]}
	for _, rest := range strings.Split(key[open+1:], "[") {
		segments = append(segments, strings.TrimSuffix(rest, "]"))
	}
	node := root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = value
}
