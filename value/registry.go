package value

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Go types are identified by their canonical string form: the package path
// qualified name for named types ("time.Time", "github.com/google/uuid.UUID"),
// and the plain spelling for predeclared and composite types ("int64",
// "[]byte").
var registry = struct {
	sync.RWMutex
	kinds map[string]Kind
}{
	kinds: map[string]Kind{
		"int":                         KindInt,
		"int8":                        KindInt,
		"int16":                       KindInt,
		"int32":                       KindInt,
		"int64":                       KindInt,
		"uint":                        KindInt,
		"uint8":                       KindInt,
		"uint16":                      KindInt,
		"uint32":                      KindInt,
		"uint64":                      KindInt,
		"float32":                     KindFloat,
		"float64":                     KindFloat,
		"bool":                        KindBool,
		"string":                      KindText,
		"time.Time":                   KindTime,
		"[]byte":                      KindBlob,
		"[]uint8":                     KindBlob,
		"github.com/google/uuid.UUID": KindUUID,
	},
}

// Register maps the Go type named goType onto kind k. Registering the same
// mapping twice is a no-op; remapping an already registered type is an error.
// Pointer types cannot be registered: optionality is expressed by the field,
// not by the mapping.
func Register(goType string, k Kind) error {
	if !k.Valid() {
		return fmt.Errorf("value: register %s: invalid kind %d", goType, k)
	}
	if goType == "" || strings.HasPrefix(goType, "*") {
		return fmt.Errorf("value: register %q: not a value type", goType)
	}
	registry.Lock()
	defer registry.Unlock()
	if prev, ok := registry.kinds[goType]; ok && prev != k {
		return fmt.Errorf("value: register %s: already mapped to %s", goType, prev)
	}
	registry.kinds[goType] = k
	return nil
}

// Lookup returns the kind registered for goType.
func Lookup(goType string) (Kind, bool) {
	registry.RLock()
	defer registry.RUnlock()
	k, ok := registry.kinds[goType]
	return k, ok
}

// Registered returns the sorted list of registered Go types.
func Registered() []string {
	registry.RLock()
	defer registry.RUnlock()
	return slices.Sorted(maps.Keys(registry.kinds))
}
