package patch

import (
	"fmt"
	"strings"
)

// PathSet 是允许修改的 JSON pointer 集合，"-" 和 "*" 段匹配任意数组下标
type PathSet map[string]bool

func NewPathSet(paths ...string) PathSet {
	set := make(PathSet, len(paths))
	for _, p := range paths {
		set[p] = true
	}
	return set
}

func (s PathSet) Allows(path string) bool {
	if len(s) == 0 || s[path] {
		return true
	}
	segments := strings.Split(path, "/")
	return s.matchWildcard(segments, 1, false)
}

func (s PathSet) matchWildcard(segments []string, index int, hasWildcard bool) bool {
	if index >= len(segments) {
		return hasWildcard && s[strings.Join(segments, "/")]
	}

	original := segments[index]
	defer func() { segments[index] = original }()

	for _, wildcard := range []string{"-", "*"} {
		segments[index] = wildcard
		if s.matchWildcard(segments, index+1, true) {
			return true
		}
	}

	segments[index] = original
	return s.matchWildcard(segments, index+1, hasWildcard)
}

func ValidateOperations(ops []Operation, allowed PathSet) error {
	for i, op := range ops {
		if !allowed.Allows(op.Path) {
			return fmt.Errorf("operation %d: path %q is not in the allowed paths set", i, op.Path)
		}
	}
	return nil
}
