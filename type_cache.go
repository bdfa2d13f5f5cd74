package singleton

import (
	"reflect"
	"strconv"
	"sync"
)

// typeNameCache memoizes fully-qualified type names so hot lookups skip
// the recursive reflection walk. It also keeps names unique per type:
// function-local types and unnamed types rendered by reflect.Type.String
// can share a qualified name with a different type.
type typeNameCache struct {
	cache sync.Map // map[reflect.Type]string

	mu     sync.Mutex
	owners map[string]reflect.Type
	next   map[string]int
}

// globalTypeNames is shared by every cache in the process.
var globalTypeNames = &typeNameCache{}

// TypeName returns the fully-qualified name used as the key for t.
//
// Named types render as import path plus name ("github.com/acme/db.Pool"),
// pointers prefix their element with "*", predeclared types use their bare
// name ("int"), and other unnamed types fall back to reflect.Type.String.
// When a different type already owns that name in this process, a suffix
// "#2", "#3" and so on is appended in order of first use.
func TypeName(t reflect.Type) string {
	return globalTypeNames.name(t)
}

func (tc *typeNameCache) name(t reflect.Type) string {
	if t == nil {
		return ""
	}

	if cached, ok := tc.cache.Load(t); ok {
		return cached.(string)
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	if cached, ok := tc.cache.Load(t); ok {
		return cached.(string)
	}

	if tc.owners == nil {
		tc.owners = make(map[string]reflect.Type)
		tc.next = make(map[string]int)
	}

	base := qualifiedName(t, 0)
	name := base
	for {
		if _, taken := tc.owners[name]; !taken {
			break
		}
		if tc.next[base] == 0 {
			tc.next[base] = 1
		}
		tc.next[base]++
		name = base + "#" + strconv.Itoa(tc.next[base])
	}

	tc.owners[name] = t
	tc.cache.Store(t, name)
	return name
}

func qualifiedName(t reflect.Type, depth int) string {
	const maxDepth = 50

	if depth > maxDepth {
		return t.String()
	}

	if t.Name() != "" {
		if pkg := t.PkgPath(); pkg != "" {
			// Generic instantiations already carry qualified type arguments in Name.
			return pkg + "." + t.Name()
		}
		return t.Name()
	}

	switch t.Kind() {
	case reflect.Pointer:
		return "*" + qualifiedName(t.Elem(), depth+1)
	case reflect.Slice:
		return "[]" + qualifiedName(t.Elem(), depth+1)
	case reflect.Map:
		return "map[" + qualifiedName(t.Key(), depth+1) + "]" + qualifiedName(t.Elem(), depth+1)
	}

	return t.String()
}

// len reports how many types have been named; used by tests.
func (tc *typeNameCache) len() int {
	n := 0
	tc.cache.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
