package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/LineCut/internal/model"
)

// lengthSteps is the number of grid steps per mm on which drawn lengths are merged.
const lengthSteps = 100

// ImportDXF reads a drawing of linear members and turns it into a piece list.
// Every LINE and ARC is one piece, an open LWPOLYLINE is one piece of its
// total length, and each edge of a closed LWPOLYLINE is a separate piece
// (a frame). Equal lengths are merged into one piece type whose minimum
// quantity is the number of members drawn.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var lengths []float64
	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.Line:
			lengths = append(lengths, distance(e.Start[0], e.Start[1], e.End[0], e.End[1]))

		case *entity.Arc:
			lengths = append(lengths, arcLength(e))

		case *entity.LwPolyline:
			if len(e.Vertices) < 2 {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 2 vertices")
				continue
			}
			edges := polylineEdges(e)
			if e.Closed {
				lengths = append(lengths, edges...)
			} else {
				total := 0.0
				for _, l := range edges {
					total += l
				}
				lengths = append(lengths, total)
			}

		case *entity.Circle:
			result.Warnings = append(result.Warnings, "Skipped CIRCLE: not a linear member")

		default:
			// Unsupported entity types are silently skipped
		}
	}

	pieces, skipped := mergeLengths(lengths)
	if skipped > 0 {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped %d degenerate member(s) shorter than %.2f mm", skipped, 1.0/lengthSteps))
	}
	if len(pieces) == 0 {
		result.Errors = append(result.Errors, "No linear members found in DXF file")
		return result
	}
	result.Pieces = pieces
	return result
}

// polylineEdges returns the length of every edge, including the closing
// edge of a closed polyline. Bulged edges are measured along the arc.
func polylineEdges(lw *entity.LwPolyline) []float64 {
	n := len(lw.Vertices)
	count := n - 1
	if lw.Closed {
		count = n
	}
	edges := make([]float64, 0, count)
	for i := 0; i < count; i++ {
		a, b := lw.Vertices[i], lw.Vertices[(i+1)%n]
		chord := distance(a[0], a[1], b[0], b[1])
		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		edges = append(edges, bulgeLength(chord, bulge))
	}
	return edges
}

// bulgeLength converts a chord and DXF bulge (tan of a quarter of the
// included angle) into the arc length.
func bulgeLength(chord, bulge float64) float64 {
	if math.Abs(bulge) < 1e-9 || chord < 1e-9 {
		return chord
	}
	theta := 4 * math.Atan(math.Abs(bulge))
	radius := chord / (2 * math.Sin(theta/2))
	return radius * theta
}

func arcLength(a *entity.Arc) float64 {
	startRad := a.Angle[0] * math.Pi / 180
	endRad := a.Angle[1] * math.Pi / 180
	if endRad <= startRad {
		endRad += 2 * math.Pi
	}
	return a.Circle.Radius * (endRad - startRad)
}

func distance(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

// mergeLengths groups lengths on the resolution grid, longest first.
func mergeLengths(lengths []float64) ([]model.PieceType, int) {
	counts := map[int64]int{}
	skipped := 0
	for _, l := range lengths {
		key := int64(math.Round(l * lengthSteps))
		if key <= 0 {
			skipped++
			continue
		}
		counts[key]++
	}

	keys := make([]int64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] > keys[j] })

	pieces := make([]model.PieceType, 0, len(keys))
	for i, k := range keys {
		length := float64(k) / lengthSteps
		pieces = append(pieces, model.NewPieceType(fmt.Sprintf("DXF Piece %d", i+1), length, counts[k]))
	}
	return pieces, skipped
}
