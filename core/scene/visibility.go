package scene

import "math"

// visibilityBuffer is the viewport expansion in screen pixels. Smaller at low
// zoom so off-screen work is not retained, larger at high zoom so panning
// stays smooth.
func (s *Store) visibilityBuffer() float64 {
	return math.Max(50, 200*s.transform.Scale)
}

// isNodeVisible tests the node's screen-space bounding box against the
// viewport rectangle expanded by the adaptive buffer.
func (s *Store) isNodeVisible(n *SceneNode) bool {
	buf := s.visibilityBuffer()
	w := NodeWidth * s.transform.Scale
	h := NodeHeight * s.transform.Scale
	return n.ScreenX+w >= -buf &&
		n.ScreenX <= s.viewport.Width+buf &&
		n.ScreenY+h >= -buf &&
		n.ScreenY <= s.viewport.Height+buf
}

// isEdgeVisible is true if either endpoint node is visible, else if the edge
// segment crosses the buffered viewport, so long edges spanning two
// off-screen nodes still render.
func (s *Store) isEdgeVisible(e *SceneEdge) bool {
	if from, ok := s.nodes[e.From]; ok && from.Visible {
		return true
	}
	if to, ok := s.nodes[e.To]; ok && to.Visible {
		return true
	}
	buf := s.visibilityBuffer()
	return segmentIntersectsRect(e.X1, e.Y1, e.X2, e.Y2,
		-buf, -buf, s.viewport.Width+buf, s.viewport.Height+buf)
}

// segmentIntersectsRect reports whether the segment (x1,y1)-(x2,y2) touches
// the rectangle: either an endpoint lies inside, or the segment crosses one
// of the four rectangle edges.
func segmentIntersectsRect(x1, y1, x2, y2, minX, minY, maxX, maxY float64) bool {
	if pointInRect(x1, y1, minX, minY, maxX, maxY) || pointInRect(x2, y2, minX, minY, maxX, maxY) {
		return true
	}
	return segmentsIntersect(x1, y1, x2, y2, minX, minY, maxX, minY) ||
		segmentsIntersect(x1, y1, x2, y2, maxX, minY, maxX, maxY) ||
		segmentsIntersect(x1, y1, x2, y2, maxX, maxY, minX, maxY) ||
		segmentsIntersect(x1, y1, x2, y2, minX, maxY, minX, minY)
}

func pointInRect(x, y, minX, minY, maxX, maxY float64) bool {
	return x >= minX && x <= maxX && y >= minY && y <= maxY
}

// segmentsIntersect uses the standard orientation test. Collinear overlaps
// count as intersections.
func segmentsIntersect(ax, ay, bx, by, cx, cy, dx, dy float64) bool {
	o1 := orientation(ax, ay, bx, by, cx, cy)
	o2 := orientation(ax, ay, bx, by, dx, dy)
	o3 := orientation(cx, cy, dx, dy, ax, ay)
	o4 := orientation(cx, cy, dx, dy, bx, by)
	if o1 != o2 && o3 != o4 {
		return true
	}
	if o1 == 0 && onSegment(ax, ay, cx, cy, bx, by) {
		return true
	}
	if o2 == 0 && onSegment(ax, ay, dx, dy, bx, by) {
		return true
	}
	if o3 == 0 && onSegment(cx, cy, ax, ay, dx, dy) {
		return true
	}
	if o4 == 0 && onSegment(cx, cy, bx, by, dx, dy) {
		return true
	}
	return false
}

func orientation(px, py, qx, qy, rx, ry float64) int {
	v := (qy-py)*(rx-qx) - (qx-px)*(ry-qy)
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

func onSegment(px, py, qx, qy, rx, ry float64) bool {
	return qx <= math.Max(px, rx) && qx >= math.Min(px, rx) &&
		qy <= math.Max(py, ry) && qy >= math.Min(py, ry)
}
