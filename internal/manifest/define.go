package manifest

import (
	"fmt"
	"strings"

	"github.com/roach88/evolve/internal/chain"
)

// Types maps manifest type names to version declarations.
type Types map[string]chain.VersionSpec

// NewTypes registers specs under their unqualified type name, so
// chain.Version[models.ProfileV1]() is found as "ProfileV1". Two specs
// whose types share that name are an error.
func NewTypes(specs ...chain.VersionSpec) (Types, error) {
	types := make(Types, len(specs))
	for _, s := range specs {
		name := shortName(s.TypeID())
		if prev, ok := types[name]; ok {
			return nil, fmt.Errorf("%s: types %s and %s share the name %q",
				ErrAmbiguousType, prev.TypeID(), s.TypeID(), name)
		}
		types[name] = s
	}
	return types, nil
}

func shortName(typeID string) string {
	// Keep type arguments intact: "pkg.Box[pkg.T]" -> "Box[pkg.T]".
	head := typeID
	if i := strings.IndexByte(head, '['); i >= 0 {
		head = head[:i]
	}
	if i := strings.LastIndexByte(head, '.'); i >= 0 {
		return typeID[i+1:]
	}
	return typeID
}

// Options converts the manifest's settings into chain options.
func (m *Manifest) Options() ([]chain.Option, error) {
	mode, err := chain.ParseMode(m.Mode)
	if err != nil {
		return nil, err
	}
	opts := []chain.Option{chain.WithName(m.Name), chain.WithMode(mode)}
	if m.TagField != "" {
		opts = append(opts, chain.WithTagField(m.TagField))
	}
	if m.Transparent {
		opts = append(opts, chain.WithTransparent())
	}
	return opts, nil
}

// Define validates m, resolves its type names against types and defines
// the chain. Extra opts are applied after the manifest's own settings.
//
// Manifest problems are returned as ValidationErrors; problems with the
// steps are chain.DefinitionErrors.
func Define[D any](m *Manifest, types Types, steps []chain.Step, opts ...chain.Option) (*chain.Chain[D], error) {
	errs := ValidationErrors(Validate(m))

	versions := make([]chain.VersionSpec, 0, len(m.Versions))
	for i, decl := range m.Versions {
		if decl.Type == "" {
			continue
		}
		spec, ok := types[decl.Type]
		if !ok {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("chain.%s.versions[%d].type", m.Name, i),
				Message: fmt.Sprintf("unknown type %q", decl.Type),
				Code:    ErrUnknownType,
				Line:    decl.Pos.Line(),
			})
			continue
		}
		var vopts []chain.VersionOption
		if decl.Tag != "" {
			vopts = append(vopts, chain.WithTag(decl.Tag))
		}
		if decl.Ordinal != 0 {
			vopts = append(vopts, chain.WithOrdinal(decl.Ordinal))
		}
		versions = append(versions, spec.With(vopts...))
	}
	if len(errs) > 0 {
		return nil, errs
	}

	base, err := m.Options()
	if err != nil {
		return nil, err
	}
	return chain.Define[D](versions, steps, append(base, opts...)...)
}
