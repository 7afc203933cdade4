// Package harness runs conformance scenarios against a chain.
//
// A scenario is a YAML file listing tagged documents and the outcome each
// one must have once decoded, migrated to the domain type and re-encoded
// at the current version:
//
//	name: profile_upgrade
//	description: Profiles at every version reach the domain type.
//	chain: Profile
//	cases:
//	  - name: v1 display name is split
//	    input: '{"_version":"1","display_name":"Ada Lovelace"}'
//	    expect:
//	      tag: "1"
//	      domain:
//	        GivenName: Ada
//	        FamilyName: Lovelace
//
// Only the expect fields a case sets are checked. Domain values are
// compared as a subset of the domain value's JSON form, so a case names
// just the fields it cares about.
//
// RunWithGolden additionally snapshots the outcome of every case as
// canonical JSON under testdata/golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
