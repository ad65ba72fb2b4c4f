package heightmap

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/npillmayer/arithm"
)

// maxNeighbors bounds the interpolation neighborhood of sparse maps.
const maxNeighbors = 8

type sample struct {
	x, y, z float64
}

// Sparse is an unordered set of irregular (x, y, z) elevation samples.
// Elevation at arbitrary points is interpolated by inverse-square-
// distance weighting over the nearest samples; queries within epsilon
// of a sample return that sample's z exactly. A map with fewer than 3
// samples is a flat datum of elevation 0.
type Sparse struct {
	samples []sample
	flat    bool
}

// NewSparse builds a sparse map from (x, y, z) triples given as a flat
// slice [x0, y0, z0, x1, y1, z1, ...].
func NewSparse(triples []float64) (*Sparse, error) {
	if len(triples)%3 != 0 {
		return nil, fmt.Errorf("%w: %d values are not (x, y, z) triples",
			ErrMalformedRecord, len(triples))
	}
	m := &Sparse{}
	for i := 0; i+2 < len(triples); i += 3 {
		x, y, z := triples[i], triples[i+1], triples[i+2]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsNaN(z) ||
			math.IsInf(x, 0) || math.IsInf(y, 0) || math.IsInf(z, 0) {
			tracer().Infof("sparse map: skipping non-finite sample %d", i/3)
			continue
		}
		m.samples = append(m.samples, sample{x, y, z})
	}
	if len(m.samples) < 3 {
		tracer().Infof("sparse map has %d samples, using flat 0 datum", len(m.samples))
		m.flat = true
	}
	return m, nil
}

// ParseSparse reads a sparse map from tabular text. Each record is a
// comma- or whitespace-separated row of at least three fields; the
// first three must be the numeric x, y and z values. Rows with fewer
// than three fields fail with ErrMalformedRecord. Rows whose x, y or z
// field is not numeric are logged and skipped; extra trailing columns
// are ignored.
func ParseSparse(r io.Reader) (*Sparse, error) {
	var triples []float64
	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := splitRecord(line)
		if len(fields) < 3 {
			return nil, fmt.Errorf("%w: line %d has %d fields, need 3",
				ErrMalformedRecord, lineno, len(fields))
		}
		x, errx := strconv.ParseFloat(fields[0], 64)
		y, erry := strconv.ParseFloat(fields[1], 64)
		z, errz := strconv.ParseFloat(fields[2], 64)
		if errx != nil || erry != nil || errz != nil {
			tracer().Infof("sparse map: skipping non-numeric record at line %d", lineno)
			continue
		}
		triples = append(triples, x, y, z)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableMap, err)
	}
	return NewSparse(triples)
}

// LoadSparse reads a sparse map from a tabular file.
func LoadSparse(path string) (*Sparse, error) {
	f, err := openMapFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseSparse(f)
}

func splitRecord(line string) []string {
	if strings.Contains(line, ",") {
		fields := strings.Split(line, ",")
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		return fields
	}
	return strings.Fields(line)
}

// N returns the number of usable samples.
func (m *Sparse) N() int {
	return len(m.samples)
}

// DepthAt returns the elevation at (x, y). A query within epsilon of a
// known sample returns that sample's z exactly. Otherwise the nearest
// samples (at most 8, at least 3) are blended with inverse-square-
// distance weights normalized to sum 1. Fewer than 3 usable samples
// degrade to the nearest sample's value, an empty map to 0.
func (m *Sparse) DepthAt(x, y float64) float64 {
	if m.flat {
		if len(m.samples) == 0 {
			return 0
		}
		return m.nearest(x, y).z
	}

	type neighbor struct {
		d2 float64
		z  float64
	}
	neighbors := make([]neighbor, 0, len(m.samples))
	for _, s := range m.samples {
		dx, dy := s.x-x, s.y-y
		d2 := dx*dx + dy*dy
		if arithm.Is0(math.Sqrt(d2)) {
			return s.z // exact at known sample points
		}
		neighbors = append(neighbors, neighbor{d2: d2, z: s.z})
	}
	sort.Slice(neighbors, func(i, j int) bool {
		return neighbors[i].d2 < neighbors[j].d2
	})
	if len(neighbors) > maxNeighbors {
		neighbors = neighbors[:maxNeighbors]
	}
	if len(neighbors) < 3 {
		return m.nearest(x, y).z
	}

	var weightSum, acc float64
	for _, n := range neighbors {
		w := 1.0 / n.d2
		weightSum += w
		acc += w * n.z
	}
	return acc / weightSum
}

func (m *Sparse) nearest(x, y float64) sample {
	best := m.samples[0]
	bestD2 := math.Inf(1)
	for _, s := range m.samples {
		dx, dy := s.x-x, s.y-y
		d2 := dx*dx + dy*dy
		if d2 < bestD2 {
			best, bestD2 = s, d2
		}
	}
	return best
}

// WriteCSV writes the samples as comma-separated (x, y, z) rows.
func (m *Sparse) WriteCSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range m.samples {
		if _, err := fmt.Fprintf(bw, "%g,%g,%g\n", s.x, s.y, s.z); err != nil {
			return err
		}
	}
	return bw.Flush()
}
