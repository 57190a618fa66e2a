package valuetree

import "strconv"

// Join builds the dotted path addressing an option group inside the parent
// document: "parameters" + "headers" -> "parameters.headers". An empty base
// yields the bare option name.
func Join(base, option string) string {
	if base == "" {
		return option
	}
	return base + "." + option
}

// Indexed builds the path addressing a single item of a multi-valued group:
// "parameters" + "headers" + 1 -> "parameters.headers[1]".
func Indexed(base, option string, index int) string {
	return Join(base, option) + "[" + strconv.Itoa(index) + "]"
}

// Field builds the path addressing one field of an item. When index is
// negative the group holds a single item and no index segment is emitted.
func Field(base, option, field string, index int) string {
	if index < 0 {
		return Join(base, option) + "." + field
	}
	return Indexed(base, option, index) + "." + field
}
