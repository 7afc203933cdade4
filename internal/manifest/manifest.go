package manifest

import (
	"fmt"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// Manifest is one compiled chain declaration.
type Manifest struct {
	Name        string        `json:"name"`
	Mode        string        `json:"mode,omitempty"`
	TagField    string        `json:"tag_field,omitempty"`
	Transparent bool          `json:"transparent,omitempty"`
	Versions    []VersionDecl `json:"versions"`
	Pos         token.Pos     `json:"-"`
}

// VersionDecl is one element of a manifest's versions list.
// Tag and Ordinal are zero when not declared.
type VersionDecl struct {
	Type    string    `json:"type"`
	Tag     string    `json:"tag,omitempty"`
	Ordinal int       `json:"ordinal,omitempty"`
	Pos     token.Pos `json:"-"`
}

// EffectiveTag returns the declared tag, or the decimal position (1-based)
// when none is declared.
func (d VersionDecl) EffectiveTag(position int) string {
	if d.Tag != "" {
		return d.Tag
	}
	return strconv.Itoa(position)
}

// CurrentTag returns the tag of the last declared version, or "" for an
// empty manifest.
func (m *Manifest) CurrentTag() string {
	if len(m.Versions) == 0 {
		return ""
	}
	return m.Versions[len(m.Versions)-1].EffectiveTag(len(m.Versions))
}

// CompileError reports a manifest that does not have the expected shape.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compile parses a CUE value into a Manifest. The value should be the chain
// struct itself; its label becomes the manifest name:
//
//	m, err := Compile(v.LookupPath(cue.ParsePath("chain.Profile")))
func Compile(v cue.Value) (*Manifest, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	m := &Manifest{Pos: v.Pos()}
	if labels := v.Path().Selectors(); len(labels) > 0 {
		m.Name = labels[len(labels)-1].String()
	}

	var err error
	if m.Mode, err = optionalString(v, "mode"); err != nil {
		return nil, err
	}
	if m.TagField, err = optionalString(v, "tag_field"); err != nil {
		return nil, err
	}

	if tv := v.LookupPath(cue.ParsePath("transparent")); tv.Exists() {
		m.Transparent, err = tv.Bool()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	versionsVal := v.LookupPath(cue.ParsePath("versions"))
	if !versionsVal.Exists() {
		return nil, &CompileError{
			Field:   "versions",
			Message: "versions is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := versionsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		decl, err := compileVersion(iter.Value())
		if err != nil {
			return nil, err
		}
		m.Versions = append(m.Versions, decl)
	}

	return m, nil
}

func compileVersion(v cue.Value) (VersionDecl, error) {
	decl := VersionDecl{Pos: v.Pos()}

	var err error
	if decl.Type, err = optionalString(v, "type"); err != nil {
		return decl, err
	}
	if decl.Tag, err = optionalString(v, "tag"); err != nil {
		return decl, err
	}

	if ov := v.LookupPath(cue.ParsePath("ordinal")); ov.Exists() {
		n, err := ov.Int64()
		if err != nil {
			return decl, formatCUEError(err)
		}
		if n < 1 {
			return decl, &CompileError{
				Field:   "ordinal",
				Message: fmt.Sprintf("ordinal must be positive, got %d", n),
				Pos:     ov.Pos(),
			}
		}
		decl.Ordinal = int(n)
	}

	return decl, nil
}

func optionalString(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", nil
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
