package ui

import (
	"image/color"

	"github.com/nodeloom/nodeloom/core/scene"
)

var (
	colBG       = color.RGBA{20, 20, 30, 255}
	colGridLine = color.RGBA{60, 60, 60, 255}

	colNodeBorder  = color.RGBA{200, 200, 210, 255}
	colSelected    = color.RGBA{255, 214, 10, 255}
	colHovered     = color.RGBA{240, 240, 240, 255}
	colShadow      = color.RGBA{0, 0, 0, 90}
	colShadowLight = color.RGBA{0, 0, 0, 50}
	colBadge       = color.RGBA{255, 255, 255, 40}
	colAnchor      = color.RGBA{150, 150, 160, 255}
	colAnchorHot   = color.RGBA{0, 200, 255, 255}
	colMarqueeFill = color.RGBA{0, 140, 255, 40}
	colMarqueeLine = color.RGBA{0, 140, 255, 200}
	colPreviewLine = color.RGBA{200, 200, 200, 255}
)

// nodeFill is the fixed palette keyed by node type.
var nodeFill = map[scene.NodeType]color.RGBA{
	scene.NodeHuman:      {52, 120, 246, 255},
	scene.NodeAI:         {147, 88, 247, 255},
	scene.NodeRisk:       {220, 53, 69, 255},
	scene.NodeDependency: {255, 159, 10, 255},
	scene.NodeDecision:   {40, 180, 99, 255},
	scene.NodeOther:      {90, 95, 105, 255},
}

var edgeColor = map[scene.EdgeType]color.RGBA{
	scene.EdgeSupport:        {80, 200, 120, 255},
	scene.EdgeContradiction:  {235, 87, 87, 255},
	scene.EdgeDependency:     {255, 180, 60, 255},
	scene.EdgeAIRelationship: {170, 120, 250, 255},
	scene.EdgeOther:          {140, 140, 150, 255},
}

func fillForNode(t scene.NodeType) color.RGBA {
	if c, ok := nodeFill[t]; ok {
		return c
	}
	return nodeFill[scene.NodeOther]
}

func colorForEdge(t scene.EdgeType) color.RGBA {
	if c, ok := edgeColor[t]; ok {
		return c
	}
	return edgeColor[scene.EdgeOther]
}
