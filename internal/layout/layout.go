// Package layout computes org-chart positions for a goal tree: roots
// across the top, children centered beneath their parent, and every
// level drawn proportionally smaller than the one above. The result is
// a side table keyed by node id; domain nodes are never annotated.
package layout

import (
	"math"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/tree"
)

// Config holds the box sizes, gaps, and depth-scaling knobs. Gaps
// shrink with the same per-depth factor as the boxes; if they did not,
// the proportional-scaling illusion would visibly break.
type Config struct {
	BaseWidth  float64 `yaml:"base_width"`
	BaseHeight float64 `yaml:"base_height"`
	// HGap separates sibling subtrees, VGap separates levels. Both are
	// depth-0 values before scaling.
	HGap float64 `yaml:"h_gap"`
	VGap float64 `yaml:"v_gap"`
	// DepthScalePercent is the multiplicative shrink per level;
	// MinScalePercent floors the decay.
	DepthScalePercent int `yaml:"depth_scale_percent"`
	MinScalePercent   int `yaml:"min_scale_percent"`
}

// DefaultConfig returns the stock layout tuning.
func DefaultConfig() Config {
	return Config{
		BaseWidth:         280,
		BaseHeight:        120,
		HGap:              40,
		VGap:              60,
		DepthScalePercent: 85,
		MinScalePercent:   50,
	}
}

// ScaleAt returns the render scale at the given depth:
// max(min, (depthScale)^depth), so depth 0 is always 1.0 and the decay
// never falls through the floor.
func (c Config) ScaleAt(depth int) float64 {
	s := math.Pow(float64(c.DepthScalePercent)/100, float64(depth))
	if floor := float64(c.MinScalePercent) / 100; s < floor {
		return floor
	}
	return s
}

func (c Config) widthAt(depth int) float64  { return c.BaseWidth * c.ScaleAt(depth) }
func (c Config) heightAt(depth int) float64 { return c.BaseHeight * c.ScaleAt(depth) }
func (c Config) hGapAt(depth int) float64   { return c.HGap * c.ScaleAt(depth) }
func (c Config) vGapAt(depth int) float64   { return c.VGap * c.ScaleAt(depth) }

// Position is the computed placement for one visible node. X/Y locate
// the top-left corner of the node's box; Scale is the render factor
// the presentation applies to the box and its contents.
type Position struct {
	X     float64
	Y     float64
	Scale float64
}

// Edge is a visible parent→child connector.
type Edge struct {
	ParentID string
	ChildID  string
}

// Result is the computed layout: a position side-table plus the edges
// between visible node pairs.
type Result struct {
	Positions map[string]Position
	Edges     []Edge
}

// Compute lays out every visible node of the index. A node is hidden
// when any ancestor is in the collapsed set; a collapsed node itself
// stays visible, its subtree does not (and contributes no width).
// The computation is pure: identical inputs produce identical output.
func Compute(x *tree.Index, collapsed map[string]bool, cfg Config) Result {
	eng := &engine{
		index:     x,
		collapsed: collapsed,
		cfg:       cfg,
		widths:    make(map[string]float64),
		result: Result{
			Positions: make(map[string]Position),
		},
	}

	// Pass 1: subtree widths, bottom-up.
	for _, root := range x.Roots() {
		eng.measure(root, 0, map[string]bool{root.ID: true})
	}

	// Pass 2: positions, top-down, root subtrees left to right.
	cursor := 0.0
	for _, root := range x.Roots() {
		eng.place(root, 0, cursor, map[string]bool{root.ID: true})
		cursor += eng.widths[root.ID] + cfg.hGapAt(0)
	}

	return eng.result
}

type engine struct {
	index     *tree.Index
	collapsed map[string]bool
	cfg       Config
	widths    map[string]float64
	result    Result
}

// visibleChildren returns a node's children unless the node is
// collapsed. The visited set keeps cyclic parent data from recursing.
func (e *engine) visibleChildren(n *domain.GoalNode, visited map[string]bool) []*domain.GoalNode {
	if e.collapsed[n.ID] {
		return nil
	}
	children := e.index.Children(n.ID)
	out := make([]*domain.GoalNode, 0, len(children))
	for _, c := range children {
		if visited[c.ID] {
			continue
		}
		out = append(out, c)
	}
	return out
}

// measure computes the subtree width of n at the given depth: its own
// box width when collapsed or leaf, otherwise the wider of its box and
// its children's combined span.
func (e *engine) measure(n *domain.GoalNode, depth int, visited map[string]bool) float64 {
	own := e.cfg.widthAt(depth)
	children := e.visibleChildren(n, visited)
	if len(children) == 0 {
		e.widths[n.ID] = own
		return own
	}

	span := 0.0
	for i, c := range children {
		visited[c.ID] = true
		if i > 0 {
			span += e.cfg.hGapAt(depth + 1)
		}
		span += e.measure(c, depth+1, visited)
	}

	w := math.Max(own, span)
	e.widths[n.ID] = w
	return w
}

// place assigns positions pre-order. spanStart is the left edge of the
// horizontal band reserved for n's subtree; the node's box is centered
// over it, and the children's combined block is centered beneath.
func (e *engine) place(n *domain.GoalNode, depth int, spanStart float64, visited map[string]bool) {
	subtree := e.widths[n.ID]
	e.result.Positions[n.ID] = Position{
		X:     spanStart + (subtree-e.cfg.widthAt(depth))/2,
		Y:     e.levelY(depth),
		Scale: e.cfg.ScaleAt(depth),
	}

	children := e.visibleChildren(n, visited)
	if len(children) == 0 {
		return
	}

	block := 0.0
	for i, c := range children {
		if i > 0 {
			block += e.cfg.hGapAt(depth + 1)
		}
		block += e.widths[c.ID]
	}

	cursor := spanStart + (subtree-block)/2
	for _, c := range children {
		visited[c.ID] = true
		e.result.Edges = append(e.result.Edges, Edge{ParentID: n.ID, ChildID: c.ID})
		e.place(c, depth+1, cursor, visited)
		cursor += e.widths[c.ID] + e.cfg.hGapAt(depth+1)
	}
}

// levelY is the top of the boxes at the given depth: the cumulative
// height plus vertical gap of every shallower level.
func (e *engine) levelY(depth int) float64 {
	y := 0.0
	for l := 0; l < depth; l++ {
		y += e.cfg.heightAt(l) + e.cfg.vGapAt(l)
	}
	return y
}
