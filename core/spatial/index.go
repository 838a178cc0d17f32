package spatial

import (
	"math"

	game_log "github.com/nodeloom/nodeloom/internal/log"
)

// cellSize is the uniform grid bucket size in world units. Node boxes are
// 240x120, so a typical box touches at most four cells.
const cellSize = 256.0

type cellKey struct{ cx, cy int }

type nodeEntry struct {
	id                     string
	minX, minY, maxX, maxY float64
}

type edgeEntry struct {
	id, from, to           string
	minX, minY, maxX, maxY float64
}

// Index answers axis-aligned range queries over node boxes and edge segments
// in world space. It is rebuilt wholesale by the scene store whenever world
// geometry changes, so queries never observe a stale snapshot. Queries
// against an empty index return empty results.
type Index struct {
	nodeCells map[cellKey][]*nodeEntry
	edgeCells map[cellKey][]*edgeEntry
	logger    *game_log.Logger
}

func New(logger *game_log.Logger) *Index {
	idx := &Index{logger: logger}
	idx.Clear()
	return idx
}

// Clear discards all entries. Called before a full rebuild.
func (idx *Index) Clear() {
	idx.nodeCells = map[cellKey][]*nodeEntry{}
	idx.edgeCells = map[cellKey][]*edgeEntry{}
}

// AddNode inserts the node's bounding box. (x,y) is the box's top-left corner
// in world coordinates.
func (idx *Index) AddNode(id string, x, y, width, height float64) {
	e := &nodeEntry{id: id, minX: x, minY: y, maxX: x + width, maxY: y + height}
	for _, k := range cellsFor(e.minX, e.minY, e.maxX, e.maxY) {
		idx.nodeCells[k] = append(idx.nodeCells[k], e)
	}
}

// AddEdge inserts the edge's segment between its endpoint centers, keyed by
// the edge id and carrying the endpoint node ids.
func (idx *Index) AddEdge(id, fromID, toID string, x1, y1, x2, y2 float64) {
	e := &edgeEntry{
		id:   id,
		from: fromID,
		to:   toID,
		minX: math.Min(x1, x2),
		minY: math.Min(y1, y2),
		maxX: math.Max(x1, x2),
		maxY: math.Max(y1, y2),
	}
	for _, k := range cellsFor(e.minX, e.minY, e.maxX, e.maxY) {
		idx.edgeCells[k] = append(idx.edgeCells[k], e)
	}
}

// QueryNodes returns the ids of all nodes whose bounding box intersects the
// query rectangle.
func (idx *Index) QueryNodes(minX, minY, maxX, maxY float64) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range cellsFor(minX, minY, maxX, maxY) {
		for _, e := range idx.nodeCells[k] {
			if seen[e.id] {
				continue
			}
			if boxesIntersect(e.minX, e.minY, e.maxX, e.maxY, minX, minY, maxX, maxY) {
				seen[e.id] = true
				out = append(out, e.id)
			}
		}
	}
	return out
}

// QueryEdges returns the ids of all edges whose bounding segment box
// intersects the query rectangle.
func (idx *Index) QueryEdges(minX, minY, maxX, maxY float64) []string {
	seen := map[string]bool{}
	var out []string
	for _, k := range cellsFor(minX, minY, maxX, maxY) {
		for _, e := range idx.edgeCells[k] {
			if seen[e.id] {
				continue
			}
			if boxesIntersect(e.minX, e.minY, e.maxX, e.maxY, minX, minY, maxX, maxY) {
				seen[e.id] = true
				out = append(out, e.id)
			}
		}
	}
	return out
}

func cellsFor(minX, minY, maxX, maxY float64) []cellKey {
	x0 := int(math.Floor(minX / cellSize))
	x1 := int(math.Floor(maxX / cellSize))
	y0 := int(math.Floor(minY / cellSize))
	y1 := int(math.Floor(maxY / cellSize))
	keys := make([]cellKey, 0, (x1-x0+1)*(y1-y0+1))
	for cx := x0; cx <= x1; cx++ {
		for cy := y0; cy <= y1; cy++ {
			keys = append(keys, cellKey{cx, cy})
		}
	}
	return keys
}

func boxesIntersect(aMinX, aMinY, aMaxX, aMaxY, bMinX, bMinY, bMaxX, bMaxY float64) bool {
	return aMinX <= bMaxX && aMaxX >= bMinX && aMinY <= bMaxY && aMaxY >= bMinY
}
