package pointing

// OrderedPoints holds the most recent point assigned to each quadrant.
//
// Slots are overwritten in place and never cleared, so a slot for a quadrant
// that received no point this tick still holds an older point. Callers must
// gate on the tick's Classification before trusting freshness.
type OrderedPoints [NumPoints]TrackedPoint

// Assign stores a copy of p in the slot for q.
func (o *OrderedPoints) Assign(q Quadrant, p TrackedPoint) {
	o[q] = p
}

// At returns the point currently held for q.
func (o OrderedPoints) At(q Quadrant) TrackedPoint {
	return o[q]
}

// assignAll feeds every classified point into the buffer in input order.
func (o *OrderedPoints) assignAll(points PointSet, c Classification) {
	for i, p := range points {
		if c.Assigned[i] {
			o.Assign(c.Quadrants[i], p)
		}
	}
}
