package schema

import (
	"fmt"
	"strings"

	"github.com/fatih/structtag"
)

// TagKey is the struct tag key that carries field annotations.
const TagKey = "orm"

// Annotation is the parsed form of an `orm` struct tag.
type Annotation struct {
	Table      string // table=<name>, only valid on the blank field
	Column     string // column=<name>
	PrimaryKey bool   // primary_key
	Nullable   bool   // nullable
	Skip       bool   // -
}

// ParseTag parses the `orm` entry of a raw struct tag. The second result is
// false if the tag has no such entry.
func ParseTag(tag string) (*Annotation, bool, error) {
	if tag == "" {
		return nil, false, nil
	}
	tags, err := structtag.Parse(tag)
	if err != nil {
		return nil, false, fmt.Errorf("malformed struct tag %q: %w", tag, err)
	}
	if tags == nil {
		return nil, false, nil
	}
	t, err := tags.Get(TagKey)
	if err != nil {
		return nil, false, nil
	}
	ann, err := parseOptions(append([]string{t.Name}, t.Options...))
	if err != nil {
		return nil, true, err
	}
	return ann, true, nil
}

// HasTag reports whether the raw struct tag carries an `orm` entry.
func HasTag(tag string) bool {
	_, ok, _ := ParseTag(tag)
	return ok
}

func parseOptions(opts []string) (*Annotation, error) {
	ann := &Annotation{}
	for _, opt := range opts {
		opt = strings.TrimSpace(opt)
		key, val, hasVal := strings.Cut(opt, "=")
		switch {
		case opt == "":
			continue
		case opt == "-":
			ann.Skip = true
		case opt == "primary_key":
			ann.PrimaryKey = true
		case opt == "nullable":
			ann.Nullable = true
		case key == "column" && hasVal:
			if val == "" {
				return nil, fmt.Errorf("empty column name")
			}
			ann.Column = val
		case key == "table" && hasVal:
			if val == "" {
				return nil, fmt.Errorf("empty table name")
			}
			ann.Table = val
		default:
			return nil, fmt.Errorf("unknown annotation %q", opt)
		}
	}
	if ann.Skip && (ann.PrimaryKey || ann.Nullable || ann.Column != "" || ann.Table != "") {
		return nil, fmt.Errorf(`"-" cannot be combined with other annotations`)
	}
	return ann, nil
}
