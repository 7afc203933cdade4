// Package chain is the migration-chain engine.
//
// A chain declares the historical wire shapes of one domain type as an
// ordered list of version payload types, V1 through VN, plus one
// conversion step per adjacent pair and a terminal step VN -> Domain:
//
//	var profiles = chain.MustDefine[Profile](
//		[]chain.VersionSpec{
//			chain.Version[ProfileV1](),
//			chain.Version[ProfileV2](),
//		},
//		[]chain.Step{
//			chain.TryConvert(upgradeV1),         // ProfileV1 -> ProfileV2
//			chain.Convert(ProfileV2.toDomain),    // ProfileV2 -> Profile
//			chain.Convert(Profile.toV2),          // Profile -> ProfileV2 (projection)
//		},
//	)
//
// # Definition time
//
// Define resolves every required step before the chain can be used. A gap
// in the chain, a duplicated version type or tag, a fallible step in an
// Infallible chain, or a fallible projection is a DefinitionErrors value,
// never a runtime failure on old data. MustDefine panics so that package
// initialization aborts on a broken chain.
//
// # Runtime
//
// Decode selects the variant for a tag and decodes its payload through the
// chain's codec. Migrate folds the steps from that variant's ordinal up to
// the domain type in ascending order; in Fallible mode the first failing
// step's error is returned verbatim and no later step runs. Project turns a
// domain value back into the latest variant, so re-serialization always
// targets the current version.
//
// A Chain is immutable after Define and safe for concurrent use. Decode,
// Migrate, Project and Encode hold no locks and share no mutable state.
package chain
