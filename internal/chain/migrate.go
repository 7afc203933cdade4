package chain

// Migrate folds rep through every step from its version up to D, in
// ascending ordinal order. A failing step stops the fold and its error is
// returned unchanged; the zero D accompanies any error.
func (c *Chain[D]) Migrate(rep Tagged) (D, error) {
	var zero D
	if rep.t != c.t {
		return zero, ErrForeignRepresentation
	}

	v := rep.payload
	for _, edge := range c.edges[rep.index:] {
		next, err := edge.apply(v)
		if err != nil {
			return zero, err
		}
		v = next
	}
	return v.(D), nil
}

// MustMigrate is Migrate for Infallible chains. It panics on error.
func (c *Chain[D]) MustMigrate(rep Tagged) D {
	d, err := c.Migrate(rep)
	if err != nil {
		panic(err)
	}
	return d
}

// Project converts d to the latest version.
func (c *Chain[D]) Project(d D) Tagged {
	// Define rejects fallible projections, so apply cannot fail here.
	v, _ := c.projection.apply(d)
	return Tagged{t: c.t, index: len(c.t.entries) - 1, payload: v}
}
