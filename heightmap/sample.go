package heightmap

import (
	"math/cmplx"

	"github.com/npillmayer/arithm"
)

// MinSegmentLength bounds the recursion of SamplePath: segments are
// never split below this length (in work units), even when the
// tolerance is not met. This guarantees termination on noisy maps; a
// capped segment can exceed the tolerance by at most the map's local
// variation over half the minimum length.
const MinSegmentLength = 1e-3

// Sample is one vertex of a subdivided path together with the map
// elevation at its position.
type Sample struct {
	P     arithm.Pair
	Depth float64
}

// SamplePath subdivides the polyline pts against map m so that linear
// interpolation between consecutive output vertices deviates from the
// sampled elevation by at most tolerance. Every input vertex is
// preserved; zero-length segments are dropped. A path whose elevation
// delta stays below the tolerance everywhere comes back as the input
// point set. The input slice is never modified.
//
// Subdivision is recursive midpoint splitting: if the elevation at a
// segment's midpoint differs from the average of the endpoint
// elevations by more than the tolerance, the segment is split at the
// midpoint and both halves are refined, until either the tolerance is
// met or the segment length falls below MinSegmentLength.
func SamplePath(m Map, pts []arithm.Pair, tolerance float64) []Sample {
	if len(pts) == 0 {
		return nil
	}
	out := make([]Sample, 0, len(pts))
	out = append(out, Sample{P: pts[0], Depth: m.DepthAt(pts[0].X(), pts[0].Y())})
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		if a.Equal(b) {
			continue // zero-length segment
		}
		da := out[len(out)-1].Depth
		db := m.DepthAt(b.X(), b.Y())
		out = refine(m, out, a, da, b, db, tolerance)
	}
	return out
}

// refine appends the subdivision of segment (a, b) to out, excluding a
// itself (already present).
func refine(m Map, out []Sample, a arithm.Pair, da float64, b arithm.Pair, db float64, tolerance float64) []Sample {
	if segmentLength(a, b) > 2*MinSegmentLength {
		mid := (a + b) / 2
		dm := m.DepthAt(mid.X(), mid.Y())
		err := dm - (da+db)/2
		if err < 0 {
			err = -err
		}
		if err > tolerance {
			out = refine(m, out, a, da, mid, dm, tolerance)
			out = refine(m, out, mid, dm, b, db, tolerance)
			return out
		}
	}
	return append(out, Sample{P: b, Depth: db})
}

func segmentLength(a, b arithm.Pair) float64 {
	return cmplx.Abs(complex128(b - a))
}
