package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/arborcli/arbor/internal/domain"
	"github.com/arborcli/arbor/internal/layout"
	"github.com/arborcli/arbor/internal/tree"
)

const svgMargin = 24

// statusFills maps node status to a box fill color.
var statusFills = map[domain.NodeStatus]string{
	domain.StatusOpen:       "#f8fafc",
	domain.StatusInProgress: "#dbeafe",
	domain.StatusCompleted:  "#dcfce7",
	domain.StatusBlocked:    "#fee2e2",
}

// WriteSVG renders the computed layout as an SVG chart: one rounded
// box per visible node, fill by status, with connectors drawn from the
// bottom center of each parent to the top center of each child.
func WriteSVG(w io.Writer, x *tree.Index, res layout.Result, cfg layout.Config) error {
	width, height := canvasSize(res, cfg)

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:#ffffff")

	// Edges first so boxes draw over them.
	for _, e := range res.Edges {
		px, py := boxAnchor(res.Positions[e.ParentID], cfg, true)
		cx, cy := boxAnchor(res.Positions[e.ChildID], cfg, false)
		canvas.Line(px, py, cx, cy, "stroke:#94a3b8;stroke-width:2")
	}

	for id, pos := range res.Positions {
		n := x.Node(id)
		if n == nil {
			continue
		}
		drawNode(canvas, n, pos, cfg)
	}

	canvas.End()
	return nil
}

func drawNode(canvas *svg.SVG, n *domain.GoalNode, pos layout.Position, cfg layout.Config) {
	bx := svgMargin + int(math.Round(pos.X))
	by := svgMargin + int(math.Round(pos.Y))
	bw := int(math.Round(cfg.BaseWidth * pos.Scale))
	bh := int(math.Round(cfg.BaseHeight * pos.Scale))
	r := int(math.Round(8 * pos.Scale))

	fill, ok := statusFills[n.Status]
	if !ok {
		fill = statusFills[domain.StatusOpen]
	}
	canvas.Roundrect(bx, by, bw, bh, r, r,
		fmt.Sprintf("fill:%s;stroke:#475569;stroke-width:1.5", fill))

	fontSize := int(math.Round(14 * pos.Scale))
	if fontSize < 7 {
		fontSize = 7
	}
	title := n.Title
	if maxChars := bw / (fontSize * 6 / 10); maxChars > 1 {
		if runes := []rune(title); len(runes) > maxChars {
			title = string(runes[:maxChars-1]) + "…"
		}
	}
	canvas.Text(bx+bw/2, by+bh/2+fontSize/3, title,
		fmt.Sprintf("text-anchor:middle;font-family:sans-serif;font-size:%dpx;fill:#0f172a", fontSize))
}

// boxAnchor returns the connector endpoint for a box: bottom center
// when bottom is true, top center otherwise.
func boxAnchor(pos layout.Position, cfg layout.Config, bottom bool) (int, int) {
	x := svgMargin + int(math.Round(pos.X+cfg.BaseWidth*pos.Scale/2))
	y := svgMargin + int(math.Round(pos.Y))
	if bottom {
		y += int(math.Round(cfg.BaseHeight * pos.Scale))
	}
	return x, y
}

func canvasSize(res layout.Result, cfg layout.Config) (int, int) {
	maxX, maxY := 0.0, 0.0
	for _, pos := range res.Positions {
		if right := pos.X + cfg.BaseWidth*pos.Scale; right > maxX {
			maxX = right
		}
		if bottom := pos.Y + cfg.BaseHeight*pos.Scale; bottom > maxY {
			maxY = bottom
		}
	}
	return int(math.Ceil(maxX)) + 2*svgMargin, int(math.Ceil(maxY)) + 2*svgMargin
}
