package chain

import (
	"errors"
	"fmt"
	"strings"
)

// DefinitionErrorKind categorizes chain definition failures.
type DefinitionErrorKind string

const (
	// EmptyChain: no versions were declared.
	EmptyChain DefinitionErrorKind = "EMPTY_CHAIN"

	// NonContiguousOrdinals: an explicit ordinal does not match its position.
	NonContiguousOrdinals DefinitionErrorKind = "NON_CONTIGUOUS_ORDINALS"

	// DuplicateType: the same payload type appears twice.
	DuplicateType DefinitionErrorKind = "DUPLICATE_TYPE"

	// DuplicateTag: two versions share a wire tag.
	DuplicateTag DefinitionErrorKind = "DUPLICATE_TAG"

	// MissingConversion: no step for a required (From, To) pair.
	MissingConversion DefinitionErrorKind = "MISSING_CONVERSION"

	// DuplicateConversion: more than one step for the same (From, To) pair.
	DuplicateConversion DefinitionErrorKind = "DUPLICATE_CONVERSION"

	// FallibleEdgeInInfallibleChain: a TryConvert step in an Infallible chain.
	FallibleEdgeInInfallibleChain DefinitionErrorKind = "FALLIBLE_EDGE_IN_INFALLIBLE_CHAIN"

	// FallibleProjection: the Domain -> VN projection was built with TryConvert.
	FallibleProjection DefinitionErrorKind = "FALLIBLE_PROJECTION"

	// TagFieldConflict: WithTagField names a field other than WithCodec's.
	TagFieldConflict DefinitionErrorKind = "TAG_FIELD_CONFLICT"
)

// Sentinels for errors.Is against a DefinitionError of the matching kind.
var (
	ErrEmptyChain                    = errors.New("chain must contain at least one version")
	ErrNonContiguousOrdinals         = errors.New("version ordinals are not contiguous")
	ErrDuplicateType                 = errors.New("version type declared twice")
	ErrDuplicateTag                  = errors.New("version tag declared twice")
	ErrMissingConversion             = errors.New("missing conversion")
	ErrDuplicateConversion           = errors.New("duplicate conversion")
	ErrFallibleEdgeInInfallibleChain = errors.New("fallible conversion in infallible chain")
	ErrFallibleProjection            = errors.New("projection must be infallible")
	ErrTagFieldConflict              = errors.New("tag field conflicts with codec")
)

var definitionSentinels = map[DefinitionErrorKind]error{
	EmptyChain:                    ErrEmptyChain,
	NonContiguousOrdinals:         ErrNonContiguousOrdinals,
	DuplicateType:                 ErrDuplicateType,
	DuplicateTag:                  ErrDuplicateTag,
	MissingConversion:             ErrMissingConversion,
	DuplicateConversion:           ErrDuplicateConversion,
	FallibleEdgeInInfallibleChain: ErrFallibleEdgeInInfallibleChain,
	FallibleProjection:            ErrFallibleProjection,
	TagFieldConflict:              ErrTagFieldConflict,
}

// DefinitionError describes one defect found by Define.
type DefinitionError struct {
	Kind    DefinitionErrorKind `json:"kind"`
	Chain   string              `json:"chain"`
	Index   int                 `json:"index"` // version position (0-based), -1 when not tied to one
	From    string              `json:"from,omitempty"`
	To      string              `json:"to,omitempty"`
	Message string              `json:"message"`
}

func (e *DefinitionError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Chain, e.Kind, e.Message)
}

// Is matches the kind's sentinel.
func (e *DefinitionError) Is(target error) bool {
	return definitionSentinels[e.Kind] == target
}

// DefinitionErrors is every defect Define found, in discovery order.
type DefinitionErrors []*DefinitionError

func (errs DefinitionErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes each DefinitionError to errors.Is and errors.As.
func (errs DefinitionErrors) Unwrap() []error {
	out := make([]error, len(errs))
	for i, e := range errs {
		out[i] = e
	}
	return out
}

// IsDefinitionError reports whether err carries a DefinitionError.
func IsDefinitionError(err error) bool {
	var de *DefinitionError
	return errors.As(err, &de)
}

// DecodeErrorKind categorizes decode failures.
type DecodeErrorKind string

const (
	// UnknownVersion: the tag matches no version of the chain.
	UnknownVersion DecodeErrorKind = "UNKNOWN_VERSION"

	// PayloadInvalid: the codec could not decode the payload for the tagged version.
	PayloadInvalid DecodeErrorKind = "PAYLOAD_INVALID"

	// MissingTag: the document has no usable version tag.
	MissingTag DecodeErrorKind = "MISSING_TAG"
)

// Sentinels for errors.Is against a DecodeError of the matching kind.
var (
	ErrUnknownVersion = errors.New("unknown version")
	ErrPayloadInvalid = errors.New("invalid payload")
	ErrMissingTag     = errors.New("missing version tag")
)

// DecodeError is returned by Decode and DecodeBytes. Err holds the codec's
// error, unmodified.
type DecodeError struct {
	Kind  DecodeErrorKind
	Chain string
	Tag   string
	Err   error
}

func (e *DecodeError) Error() string {
	switch e.Kind {
	case UnknownVersion:
		return fmt.Sprintf("%s: %s: unknown version tag %q", e.Chain, e.Kind, e.Tag)
	case PayloadInvalid:
		if e.Tag != "" {
			return fmt.Sprintf("%s: %s: version %q: %v", e.Chain, e.Kind, e.Tag, e.Err)
		}
		return fmt.Sprintf("%s: %s: %v", e.Chain, e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Chain, e.Kind, e.Err)
	}
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches the kind's sentinel.
func (e *DecodeError) Is(target error) bool {
	switch e.Kind {
	case UnknownVersion:
		return target == ErrUnknownVersion
	case PayloadInvalid:
		return target == ErrPayloadInvalid
	case MissingTag:
		return target == ErrMissingTag
	}
	return false
}

// IsUnknownVersion reports whether err is a DecodeError for an unknown tag.
func IsUnknownVersion(err error) bool {
	return errors.Is(err, ErrUnknownVersion)
}

var (
	// ErrForeignRepresentation is returned for a zero Tagged or one produced
	// by a different chain.
	ErrForeignRepresentation = errors.New("representation does not belong to this chain")

	// ErrNotAVersion is returned by Wrap for a payload whose type is not declared.
	ErrNotAVersion = errors.New("payload type is not a version of this chain")

	// ErrOverlayDisabled is returned by Overlay unless the chain was defined WithTransparent.
	ErrOverlayDisabled = errors.New("transparent overlay not enabled for chain")
)
