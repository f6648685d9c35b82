package catalog

import (
	"regexp"
)

var qualifier = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*::)+`)

// ShortTypePath removes all module qualifiers from a type path,
// for example
//
//	std::collections::HashMap<alloc::string::String, u32> -> HashMap<String, u32>
func ShortTypePath(path string) string {
	return qualifier.ReplaceAllString(path, "")
}
