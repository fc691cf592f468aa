package pointing

// Classification is the outcome of sorting one PointSet into quadrants.
// Assigned and Quadrants are indexed by input position, not by slot.
type Classification struct {
	ValidCount  int
	XSeparator  int
	YSeparator  int
	Assigned    [NumPoints]bool
	Quadrants   [NumPoints]Quadrant
	QuadrantHit [NumPoints]bool
}

// Covers reports whether every listed quadrant received a point this tick.
func (c Classification) Covers(qs ...Quadrant) bool {
	for _, q := range qs {
		if !c.QuadrantHit[q] {
			return false
		}
	}
	return true
}

// Classify assigns every valid point to a quadrant.
//
// The separators are the second-smallest x and y among the valid points, so
// one extreme outlier cannot drag the split. Points on a separator belong to
// the left/top side.
func Classify(points PointSet) (Classification, error) {
	var c Classification
	c.ValidCount = points.ValidCount()
	if c.ValidCount < 3 {
		return c, ErrInsufficientPoints
	}

	c.XSeparator = secondSmallest(points, func(p TrackedPoint) int { return p.X })
	c.YSeparator = secondSmallest(points, func(p TrackedPoint) int { return p.Y })

	for i, p := range points {
		if !p.Valid {
			continue
		}
		q := quadrantOf(p.X <= c.XSeparator, p.Y <= c.YSeparator)
		c.Assigned[i] = true
		c.Quadrants[i] = q
		c.QuadrantHit[q] = true
	}
	return c, nil
}

func quadrantOf(left, top bool) Quadrant {
	switch {
	case left && top:
		return TopLeft
	case !left && top:
		return TopRight
	case !left && !top:
		return BottomRight
	default:
		return BottomLeft
	}
}

// secondSmallest finds the index of the smallest coordinate among valid
// points (first occurrence wins ties) and returns the smallest coordinate
// among the remaining valid points. The caller guarantees at least two
// valid points.
func secondSmallest(points PointSet, coord func(TrackedPoint) int) int {
	minIdx := -1
	for i, p := range points {
		if !p.Valid {
			continue
		}
		if minIdx < 0 || coord(p) < coord(points[minIdx]) {
			minIdx = i
		}
	}

	sep, found := 0, false
	for i, p := range points {
		if !p.Valid || i == minIdx {
			continue
		}
		if v := coord(p); !found || v < sep {
			sep, found = v, true
		}
	}
	return sep
}
