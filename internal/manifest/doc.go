// Package manifest loads chain declarations written in CUE.
//
// A manifest directory holds one or more .cue files of the same package.
// Each entry under the top-level "chain" struct declares one chain:
//
//	package chains
//
//	chain: Profile: {
//		mode:        "fallible"
//		tag_field:   "_version"
//		transparent: true
//		versions: [
//			{type: "ProfileV1"},
//			{type: "ProfileV2", tag: "2"},
//			{type: "ProfileV3", ordinal: 3},
//		]
//	}
//
// Load compiles every entry into a Manifest, Validate checks it
// structurally, and Define binds it to Go version types and steps.
package manifest
