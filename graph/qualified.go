package graph

import "strings"

// Prefix returns the qualified name of the scope that directly owns
// fullName: everything before the last dot. For a module-level definition
// that is the module name; for a class member it is the class's qualified
// name. Returns empty for an unqualified name.
func Prefix(fullName string) string {
	if idx := strings.LastIndexByte(fullName, '.'); idx >= 0 {
		return fullName[:idx]
	}
	return ""
}

// BaseName returns the bare name after the last dot
func BaseName(fullName string) string {
	if idx := strings.LastIndexByte(fullName, '.'); idx >= 0 {
		return fullName[idx+1:]
	}
	return fullName
}

// Join qualifies name with the given owning prefix
func Join(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
