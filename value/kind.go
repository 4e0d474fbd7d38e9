package value

import "fmt"

// Kind is the closed set of value kinds a database column can hold.
type Kind uint8

// Value kinds.
const (
	KindInvalid Kind = iota
	KindInt
	KindFloat
	KindBool
	KindText
	KindTime
	KindBlob
	KindUUID
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindInt:     "int",
	KindFloat:   "float",
	KindBool:    "bool",
	KindText:    "text",
	KindTime:    "time",
	KindBlob:    "blob",
	KindUUID:    "uuid",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Valid reports whether k is one of the defined kinds.
func (k Kind) Valid() bool {
	return k > KindInvalid && int(k) < len(kindNames)
}

// ParseKind returns the kind with the given name.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if Kind(k) != KindInvalid && name == s {
			return Kind(k), nil
		}
	}
	return KindInvalid, fmt.Errorf("value: unknown kind %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("value: invalid kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	v, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// Compatible reports whether a stored value of kind wire can be decoded into a
// field declared with kind declared, either directly or through one of the
// lossless coercions.
func Compatible(wire, declared Kind) bool {
	if wire == declared {
		return true
	}
	switch declared {
	case KindFloat, KindBool:
		return wire == KindInt
	case KindText:
		return wire == KindBlob
	case KindBlob:
		return wire == KindText
	case KindTime:
		return wire == KindText
	case KindUUID:
		return wire == KindText || wire == KindBlob
	}
	return false
}
