package testutil

import (
	"fmt"
	"strings"

	"github.com/roach88/evolve/internal/chain"
)

// Three-version profile chain shared by package tests.
//
//	ProfileV1{display_name} -> ProfileV2{given_name, family_name} -> ProfileV3{+preferred} -> Profile
//
// V1 -> V2 fails when display_name has no space.

type ProfileV1 struct {
	DisplayName string `json:"display_name" yaml:"display_name"`
}

type ProfileV2 struct {
	GivenName  string `json:"given_name" yaml:"given_name"`
	FamilyName string `json:"family_name" yaml:"family_name"`
}

type ProfileV3 struct {
	GivenName  string  `json:"given_name" yaml:"given_name"`
	FamilyName string  `json:"family_name" yaml:"family_name"`
	Preferred  *string `json:"preferred" yaml:"preferred"`
}

type Profile struct {
	GivenName  string
	FamilyName string
	Preferred  *string
}

// Step names recorded on the CallCounter passed to ProfileSteps.
const (
	StepV1ToV2     = "v1->v2"
	StepV2ToV3     = "v2->v3"
	StepV3ToDomain = "v3->profile"
	StepProject    = "profile->v3"
)

// ErrNoFamilyName is returned by the V1 -> V2 step.
var ErrNoFamilyName = fmt.Errorf("display_name missing family name")

// ProfileVersions declares V1..V3 with default tags "1", "2", "3".
func ProfileVersions() []chain.VersionSpec {
	return []chain.VersionSpec{
		chain.Version[ProfileV1](),
		chain.Version[ProfileV2](),
		chain.Version[ProfileV3](),
	}
}

// ProfileSteps returns the chain's steps, each recording itself on counter.
// counter may be nil.
func ProfileSteps(counter *CallCounter) []chain.Step {
	hit := func(name string) {
		if counter != nil {
			counter.Hit(name)
		}
	}
	return []chain.Step{
		chain.TryConvert(func(v1 ProfileV1) (ProfileV2, error) {
			hit(StepV1ToV2)
			given, family, ok := strings.Cut(v1.DisplayName, " ")
			if !ok || family == "" {
				return ProfileV2{}, ErrNoFamilyName
			}
			return ProfileV2{GivenName: given, FamilyName: family}, nil
		}),
		chain.Convert(func(v2 ProfileV2) ProfileV3 {
			hit(StepV2ToV3)
			return ProfileV3{GivenName: v2.GivenName, FamilyName: v2.FamilyName}
		}),
		chain.Convert(func(v3 ProfileV3) Profile {
			hit(StepV3ToDomain)
			return Profile{GivenName: v3.GivenName, FamilyName: v3.FamilyName, Preferred: v3.Preferred}
		}),
		chain.Convert(func(p Profile) ProfileV3 {
			hit(StepProject)
			return ProfileV3{GivenName: p.GivenName, FamilyName: p.FamilyName, Preferred: p.Preferred}
		}),
	}
}

// NewProfileChain defines the profile chain named "Profile".
func NewProfileChain(counter *CallCounter, opts ...chain.Option) *chain.Chain[Profile] {
	opts = append([]chain.Option{chain.WithName("Profile")}, opts...)
	return chain.MustDefine[Profile](ProfileVersions(), ProfileSteps(counter), opts...)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
