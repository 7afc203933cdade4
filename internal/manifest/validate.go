package manifest

import (
	"fmt"
	"strings"

	"github.com/roach88/evolve/internal/chain"
)

// Validation error codes (E200-E299)
const (
	ErrEmptyChain    = "E201" // no versions declared
	ErrOrdinal       = "E202" // declared ordinal does not match position
	ErrDuplicateType = "E203" // type listed twice
	ErrDuplicateTag  = "E204" // two versions share a tag
	ErrInvalidMode   = "E205" // mode is not fallible/infallible
	ErrEmptyTypeName = "E206" // version without a type
	ErrUnknownType   = "E207" // type not registered with Define
	ErrAmbiguousType = "E208" // two registered types share a short name
)

// ValidationError represents a manifest validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// ValidationErrors is the error returned by Define when validation fails.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a manifest structurally.
// Returns all errors found (does not fail-fast).
func Validate(m *Manifest) []ValidationError {
	var errs []ValidationError

	if _, err := chain.ParseMode(m.Mode); err != nil {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("chain.%s.mode", m.Name),
			Message: err.Error(),
			Code:    ErrInvalidMode,
			Line:    m.Pos.Line(),
		})
	}

	if len(m.Versions) == 0 {
		errs = append(errs, ValidationError{
			Field:   fmt.Sprintf("chain.%s.versions", m.Name),
			Message: "at least one version is required",
			Code:    ErrEmptyChain,
			Line:    m.Pos.Line(),
		})
		return errs
	}

	types := make(map[string]int, len(m.Versions))
	tags := make(map[string]int, len(m.Versions))
	for i, v := range m.Versions {
		pos := i + 1
		field := fmt.Sprintf("chain.%s.versions[%d]", m.Name, i)

		if v.Type == "" {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: "type is required",
				Code:    ErrEmptyTypeName,
				Line:    v.Pos.Line(),
			})
		} else if prev, dup := types[v.Type]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".type",
				Message: fmt.Sprintf("type %q already used by version %d", v.Type, prev),
				Code:    ErrDuplicateType,
				Line:    v.Pos.Line(),
			})
		} else {
			types[v.Type] = pos
		}

		if v.Ordinal != 0 && v.Ordinal != pos {
			errs = append(errs, ValidationError{
				Field:   field + ".ordinal",
				Message: fmt.Sprintf("ordinal %d does not match position %d", v.Ordinal, pos),
				Code:    ErrOrdinal,
				Line:    v.Pos.Line(),
			})
		}

		tag := v.EffectiveTag(pos)
		if prev, dup := tags[tag]; dup {
			errs = append(errs, ValidationError{
				Field:   field + ".tag",
				Message: fmt.Sprintf("tag %q already used by version %d", tag, prev),
				Code:    ErrDuplicateTag,
				Line:    v.Pos.Line(),
			})
		} else {
			tags[tag] = pos
		}
	}

	return errs
}
