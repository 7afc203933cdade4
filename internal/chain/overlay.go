package chain

// Overlay encodes and decodes D directly, hiding Tagged from callers.
// Domain types usually delegate their MarshalJSON/UnmarshalJSON to one:
//
//	func (p Person) MarshalJSON() ([]byte, error) { return personOverlay.Encode(p) }
type Overlay[D any] struct {
	chain *Chain[D]
}

// Overlay returns the transparent overlay of a chain defined WithTransparent.
func (c *Chain[D]) Overlay() (*Overlay[D], error) {
	if !c.transparent {
		return nil, ErrOverlayDisabled
	}
	return &Overlay[D]{chain: c}, nil
}

// MustOverlay is like Overlay but panics when the overlay is disabled.
func (c *Chain[D]) MustOverlay() *Overlay[D] {
	o, err := c.Overlay()
	if err != nil {
		panic(err)
	}
	return o
}

// Chain returns the underlying chain.
func (o *Overlay[D]) Chain() *Chain[D] { return o.chain }

// Decode reads a document of any version and migrates it to D.
func (o *Overlay[D]) Decode(data []byte) (D, error) {
	rep, err := o.chain.DecodeBytes(data)
	if err != nil {
		var zero D
		return zero, err
	}
	return o.chain.Migrate(rep)
}

// Encode writes d as a document of the current version.
func (o *Overlay[D]) Encode(d D) ([]byte, error) {
	return o.chain.Encode(o.chain.Project(d))
}
