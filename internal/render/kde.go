package render

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/gaze.report/internal/analysis"
)

// fallbackSigma is the kernel width, in degrees before bandwidth scaling,
// used when the sample covariance is singular.
const fallbackSigma = 1.0

// KDE is a 2-D Gaussian kernel density estimate. The kernel covariance is
// the sample covariance scaled by Scott's factor times a bandwidth
// adjustment.
type KDE struct {
	xs, ys []float64
	// inverse kernel covariance [[a b] [b c]]
	a, b, c float64
	norm    float64
}

// NewKDE fits a KDE to points. It returns nil when points is empty.
func NewKDE(points []analysis.Point, bwAdjust float64) *KDE {
	n := len(points)
	if n == 0 {
		return nil
	}

	data := make([]float64, 0, 2*n)
	k := &KDE{xs: make([]float64, n), ys: make([]float64, n)}
	for i, p := range points {
		k.xs[i], k.ys[i] = p.X, p.Y
		data = append(data, p.X, p.Y)
	}

	factor := math.Pow(float64(n), -1.0/6.0) * bwAdjust

	var bw mat.SymDense
	if n > 1 {
		var cov mat.SymDense
		stat.CovarianceMatrix(&cov, mat.NewDense(n, 2, data), nil)
		bw.ScaleSym(factor*factor, &cov)
	}

	var chol mat.Cholesky
	if n < 2 || !chol.Factorize(&bw) {
		s := fallbackSigma * factor
		iso := mat.NewSymDense(2, []float64{s * s, 0, 0, s * s})
		chol.Factorize(iso)
	}

	var inv mat.SymDense
	if err := chol.InverseTo(&inv); err != nil {
		s := fallbackSigma * factor
		k.a, k.b, k.c = 1/(s*s), 0, 1/(s*s)
		k.norm = 1 / (2 * math.Pi * s * s * float64(n))
		return k
	}
	k.a, k.b, k.c = inv.At(0, 0), inv.At(0, 1), inv.At(1, 1)
	k.norm = 1 / (2 * math.Pi * math.Sqrt(chol.Det()) * float64(n))
	return k
}

// At returns the estimated density at (x, y).
func (k *KDE) At(x, y float64) float64 {
	var sum float64
	for i := range k.xs {
		dx, dy := x-k.xs[i], y-k.ys[i]
		q := k.a*dx*dx + 2*k.b*dx*dy + k.c*dy*dy
		sum += math.Exp(-0.5 * q)
	}
	return k.norm * sum
}

// DensityGrid is a square grid of density values. It implements
// plotter.GridXYZ.
type DensityGrid struct {
	n    int
	min  float64
	step float64
	z    []float64
	maxZ float64
}

// Evaluate samples k on an n×n grid of cell centres spanning
// [-limit, limit] on both axes.
func (k *KDE) Evaluate(limit float64, n int) *DensityGrid {
	g := &DensityGrid{
		n:    n,
		step: 2 * limit / float64(n),
		z:    make([]float64, n*n),
	}
	g.min = -limit + g.step/2
	for r := 0; r < n; r++ {
		y := g.Y(r)
		for c := 0; c < n; c++ {
			v := k.At(g.X(c), y)
			g.z[r*n+c] = v
			if v > g.maxZ {
				g.maxZ = v
			}
		}
	}
	return g
}

// Dims returns the grid dimensions.
func (g *DensityGrid) Dims() (c, r int) { return g.n, g.n }

// Z returns the density of cell (c, r).
func (g *DensityGrid) Z(c, r int) float64 { return g.z[r*g.n+c] }

// X returns the centre of column c.
func (g *DensityGrid) X(c int) float64 { return g.min + float64(c)*g.step }

// Y returns the centre of row r.
func (g *DensityGrid) Y(r int) float64 { return g.min + float64(r)*g.step }

// Max returns the largest density on the grid.
func (g *DensityGrid) Max() float64 { return g.maxZ }
