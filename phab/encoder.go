package phab

import "fmt"

// FlattenParameters converts nested request parameters into the flat
// key/value form the Conduit API accepts. Conduit takes structured
// parameters as bracket paths:
//
//	transactions[0][type]=parent
//	transactions[0][value]=PHID-PROJ-ft7vbzykjs52i5vguajb
//	transactions[1][type]=name
//	transactions[1][value]=WMSE-Project
//
// mapped from a nested structure like:
//
//	{"transactions": {"0": {"type": "parent", "value": "PHID-..."},
//	                  "1": {"type": "name", "value": "WMSE-Project"}}}
//
// Top-level keys become the bare prefix; every deeper mapping level appends
// a [key] segment, slices append their integer index, and scalars terminate
// the path. Key order in the result is unspecified.
func FlattenParameters(parameters map[string]any) map[string]string {
	flat := map[string]string{}
	flattenInto(flat, parameters, "", true)
	return flat
}

func flattenInto(flat map[string]string, parameters map[string]any, prefix string, top bool) {
	for key, value := range parameters {
		path := fmt.Sprintf("%s[%s]", prefix, key)
		if top {
			path = key
		}
		switch v := value.(type) {
		case map[string]any:
			flattenInto(flat, v, path, false)
		case []any:
			for index, item := range v {
				flat[fmt.Sprintf("%s[%d]", path, index)] = fmt.Sprint(item)
			}
		default:
			flat[path] = fmt.Sprint(v)
		}
	}
}
