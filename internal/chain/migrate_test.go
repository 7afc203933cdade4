package chain_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/evolve/internal/chain"
	"github.com/roach88/evolve/internal/testutil"
)

type userV1 struct {
	Name string `json:"name"`
}

type userV2 struct {
	FullName string  `json:"full_name"`
	Email    *string `json:"email"`
}

type user struct {
	FullName string
	Email    *string
}

func newUserChain(t *testing.T) *chain.Chain[user] {
	t.Helper()
	c, err := chain.Define[user](
		[]chain.VersionSpec{chain.Version[userV1](), chain.Version[userV2]()},
		[]chain.Step{
			chain.Convert(func(v userV1) userV2 { return userV2{FullName: v.Name} }),
			chain.Convert(func(v userV2) user { return user(v) }),
			chain.Convert(func(u user) userV2 { return userV2(u) }),
		},
		chain.WithMode(chain.Infallible),
	)
	require.NoError(t, err)
	return c
}

// =============================================================================
// Migration Tests
// =============================================================================

func TestMigrateOldestDocumentToDomain(t *testing.T) {
	c := newUserChain(t)

	rep, err := c.DecodeBytes([]byte(`{"_version":"1","name":"Alice"}`))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Ordinal())
	assert.False(t, rep.IsCurrent())

	got := c.MustMigrate(rep)
	assert.Equal(t, user{FullName: "Alice", Email: nil}, got)
}

func TestMigrateCurrentDocumentRunsTerminalStepOnly(t *testing.T) {
	c := newUserChain(t)

	rep, err := c.DecodeBytes([]byte(`{"_version":"2","full_name":"Bob","email":"bob@example.com"}`))
	require.NoError(t, err)
	assert.True(t, rep.IsCurrent())

	got, err := c.Migrate(rep)
	require.NoError(t, err)
	assert.Equal(t, user{FullName: "Bob", Email: testutil.Ptr("bob@example.com")}, got)
}

func TestMigrateFoldEquivalence(t *testing.T) {
	counter := testutil.NewCallCounter()
	c := testutil.NewProfileChain(counter)

	v1 := testutil.ProfileV1{DisplayName: "Grace Hopper"}
	v2 := testutil.ProfileV2{GivenName: "Grace", FamilyName: "Hopper"}
	v3 := testutil.ProfileV3{GivenName: "Grace", FamilyName: "Hopper"}
	want := testutil.Profile{GivenName: "Grace", FamilyName: "Hopper"}

	tests := []struct {
		name      string
		payload   any
		wantSteps int
	}{
		{"from v1", v1, 3},
		{"from v2", v2, 2},
		{"from v3", v3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counter.Reset()
			rep, err := c.Wrap(tt.payload)
			require.NoError(t, err)

			got, err := c.Migrate(rep)
			require.NoError(t, err)
			assert.Equal(t, want, got)
			assert.Equal(t, tt.wantSteps, counter.Total(), "one step per remaining edge")
			assert.Equal(t, 0, counter.Count(testutil.StepProject), "projection never runs during migrate")
		})
	}
}

func TestMigrateShortCircuitsOnFailure(t *testing.T) {
	counter := testutil.NewCallCounter()
	c := testutil.NewProfileChain(counter)

	rep, err := c.Wrap(testutil.ProfileV1{DisplayName: "Plato"})
	require.NoError(t, err)

	got, err := c.Migrate(rep)
	require.Error(t, err)
	assert.Same(t, testutil.ErrNoFamilyName, err, "step error is returned unchanged")
	assert.Equal(t, testutil.Profile{}, got)

	assert.Equal(t, 1, counter.Count(testutil.StepV1ToV2))
	assert.Equal(t, 0, counter.Count(testutil.StepV2ToV3))
	assert.Equal(t, 0, counter.Count(testutil.StepV3ToDomain))
}

func TestMigrateLaterVersionSkipsFailingStep(t *testing.T) {
	counter := testutil.NewCallCounter()
	c := testutil.NewProfileChain(counter)

	rep, err := c.Wrap(testutil.ProfileV2{GivenName: "Plato"})
	require.NoError(t, err)

	got, err := c.Migrate(rep)
	require.NoError(t, err)
	assert.Equal(t, testutil.Profile{GivenName: "Plato"}, got)
	assert.Equal(t, 0, counter.Count(testutil.StepV1ToV2))
}

type quotaV1 struct{ Limit int }
type quotaV2 struct{ Limit int }
type quotaV3 struct{ Limit int }
type quota struct{ Limit int }

var errQuotaTooLarge = fmt.Errorf("limit exceeds v3 maximum")

func TestMigrateShortCircuitsOnMiddleStep(t *testing.T) {
	counter := testutil.NewCallCounter()
	c, err := chain.Define[quota](
		[]chain.VersionSpec{chain.Version[quotaV1](), chain.Version[quotaV2](), chain.Version[quotaV3]()},
		[]chain.Step{
			chain.Convert(func(v quotaV1) quotaV2 {
				counter.Hit("v1->v2")
				return quotaV2(v)
			}),
			chain.TryConvert(func(v quotaV2) (quotaV3, error) {
				counter.Hit("v2->v3")
				if v.Limit > 100 {
					return quotaV3{}, errQuotaTooLarge
				}
				return quotaV3(v), nil
			}),
			chain.Convert(func(v quotaV3) quota {
				counter.Hit("v3->quota")
				return quota(v)
			}),
			chain.Convert(func(q quota) quotaV3 { return quotaV3(q) }),
		},
	)
	require.NoError(t, err)

	for _, payload := range []any{quotaV1{Limit: 500}, quotaV2{Limit: 500}} {
		t.Run(fmt.Sprintf("%T", payload), func(t *testing.T) {
			counter.Reset()
			rep, err := c.Wrap(payload)
			require.NoError(t, err)

			got, err := c.Migrate(rep)
			assert.Same(t, errQuotaTooLarge, err)
			assert.Equal(t, quota{}, got)
			assert.Equal(t, 1, counter.Count("v2->v3"))
			assert.Equal(t, 0, counter.Count("v3->quota"))
		})
	}

	rep, err := c.Wrap(quotaV1{Limit: 50})
	require.NoError(t, err)
	got, err := c.Migrate(rep)
	require.NoError(t, err)
	assert.Equal(t, quota{Limit: 50}, got)
}

type stage1 struct{ Trail []string }
type stage2 struct{ Trail []string }
type stage3 struct{ Trail []string }
type staged struct{ Trail []string }

func TestMigrateAppliesStepsInOrdinalOrder(t *testing.T) {
	// Steps are declared out of order; the fold must still run 1->2->3->domain.
	c, err := chain.Define[staged](
		[]chain.VersionSpec{chain.Version[stage1](), chain.Version[stage2](), chain.Version[stage3]()},
		[]chain.Step{
			chain.Convert(func(s stage3) staged { return staged{Trail: append(s.Trail, "3->d")} }),
			chain.Convert(func(s staged) stage3 { return stage3(s) }),
			chain.Convert(func(s stage1) stage2 { return stage2{Trail: append(s.Trail, "1->2")} }),
			chain.Convert(func(s stage2) stage3 { return stage3{Trail: append(s.Trail, "2->3")} }),
		},
		chain.WithMode(chain.Infallible),
	)
	require.NoError(t, err)

	rep, err := c.Wrap(stage1{})
	require.NoError(t, err)
	got := c.MustMigrate(rep)
	assert.Equal(t, []string{"1->2", "2->3", "3->d"}, got.Trail)
}

func TestMigrateForeignRepresentation(t *testing.T) {
	a := testutil.NewProfileChain(nil)
	b := testutil.NewProfileChain(nil)

	rep, err := b.Wrap(testutil.ProfileV3{})
	require.NoError(t, err)

	_, err = a.Migrate(rep)
	assert.ErrorIs(t, err, chain.ErrForeignRepresentation)

	_, err = a.Migrate(chain.Tagged{})
	assert.ErrorIs(t, err, chain.ErrForeignRepresentation)
}

func TestMustMigratePanicsOnFailure(t *testing.T) {
	c := testutil.NewProfileChain(nil)
	rep, err := c.Wrap(testutil.ProfileV1{DisplayName: "Plato"})
	require.NoError(t, err)

	assert.Panics(t, func() { c.MustMigrate(rep) })
}

func TestVersionIsAlwaysCurrent(t *testing.T) {
	c := testutil.NewProfileChain(nil)
	for _, payload := range []any{
		testutil.ProfileV1{DisplayName: "A B"},
		testutil.ProfileV2{GivenName: "A", FamilyName: "B"},
		testutil.ProfileV3{GivenName: "A", FamilyName: "B"},
	} {
		rep, err := c.Wrap(payload)
		require.NoError(t, err)
		_, err = c.Migrate(rep)
		require.NoError(t, err)
		assert.Equal(t, 3, c.Version())
	}
}

func TestMigrateConcurrent(t *testing.T) {
	counter := testutil.NewCallCounter()
	c := testutil.NewProfileChain(counter)

	const workers = 32
	var wg sync.WaitGroup
	results := make([]testutil.Profile, workers)
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			doc := fmt.Sprintf(`{"_version":"1","display_name":"User%d Number%d"}`, i, i)
			rep, err := c.DecodeBytes([]byte(doc))
			if err != nil {
				errs[i] = err
				return
			}
			results[i], errs[i] = c.Migrate(rep)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("User%d", i), results[i].GivenName)
		assert.Equal(t, fmt.Sprintf("Number%d", i), results[i].FamilyName)
	}
	assert.Equal(t, workers, counter.Count(testutil.StepV1ToV2))
}

// =============================================================================
// Projection Tests
// =============================================================================

func TestProjectProducesLatestVersion(t *testing.T) {
	counter := testutil.NewCallCounter()
	c := testutil.NewProfileChain(counter)

	p := testutil.Profile{GivenName: "Ada", FamilyName: "Lovelace", Preferred: testutil.Ptr("Countess")}
	rep := c.Project(p)

	assert.True(t, rep.IsCurrent())
	assert.Equal(t, "3", rep.Tag())
	assert.Equal(t, testutil.ProfileV3{GivenName: "Ada", FamilyName: "Lovelace", Preferred: testutil.Ptr("Countess")}, rep.Payload())
	assert.Equal(t, 1, counter.Count(testutil.StepProject))

	back, err := c.Migrate(rep)
	require.NoError(t, err)
	assert.Equal(t, p, back, "project then migrate is the identity")
}

type sameV1 struct{ N int }
type same struct{ N int }

func TestDomainEqualToLatestVersionUsesIdentity(t *testing.T) {
	// When the domain type is VN itself, one identity step serves as both
	// the terminal edge and the projection.
	c, err := chain.Define[same](
		[]chain.VersionSpec{chain.Version[sameV1](), chain.Version[same]()},
		[]chain.Step{
			chain.Convert(func(v sameV1) same { return same(v) }),
			chain.Convert(func(v same) same { return v }),
		},
		chain.WithMode(chain.Infallible),
	)
	require.NoError(t, err)

	rep, err := c.Wrap(sameV1{N: 4})
	require.NoError(t, err)
	assert.Equal(t, same{N: 4}, c.MustMigrate(rep))
	assert.Equal(t, same{N: 5}, c.Project(same{N: 5}).Payload())
}
