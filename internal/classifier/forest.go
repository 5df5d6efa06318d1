package classifier

import (
	"context"
	"math"
	"math/rand"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Forest is a bagged ensemble of CART trees with balanced class weights.
// Every tree gets its seed from a master source before training starts, so
// the fitted forest does not depend on Jobs or scheduling.
type Forest struct {
	Trees           int
	MinSamplesSplit int
	MaxDepth        int // 0 = grow until pure
	MaxFeatures     int // 0 = sqrt(features)
	Jobs            int // 0 = GOMAXPROCS
	Seed            int64
	Logger          *zap.Logger
}

// NewForest creates a Forest classifier.
func NewForest(trees, minSamplesSplit, maxDepth, jobs int, seed int64, logger *zap.Logger) *Forest {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Forest{
		Trees:           trees,
		MinSamplesSplit: minSamplesSplit,
		MaxDepth:        maxDepth,
		Jobs:            jobs,
		Seed:            seed,
		Logger:          logger,
	}
}

// Name implements Classifier.
func (f *Forest) Name() string { return "Random Forest" }

// Fit implements Classifier.
func (f *Forest) Fit(ctx context.Context, X mat.Matrix, y []int) (Model, error) {
	rows, nFeat, err := checkXY(X, y)
	if err != nil {
		return nil, err
	}

	cols := make([][]float64, nFeat)
	for j := range cols {
		cols[j] = mat.Col(nil, j, X)
	}

	maxFeatures := f.MaxFeatures
	if maxFeatures <= 0 {
		maxFeatures = int(math.Sqrt(float64(nFeat)))
	}
	maxFeatures = max(1, min(maxFeatures, nFeat))

	minSplit := max(2, f.MinSamplesSplit)
	classWeights := BalancedWeights(y)

	master := rand.New(rand.NewSource(f.Seed))
	seeds := make([]int64, f.Trees)
	for i := range seeds {
		seeds[i] = master.Int63()
	}

	jobs := f.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	trees := make([]*node, f.Trees)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for t := range trees {
		t := t
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			rng := rand.New(rand.NewSource(seeds[t]))

			// Bootstrap: draw rows with replacement, weight = draws * class weight.
			draws := make([]int, rows)
			for i := 0; i < rows; i++ {
				draws[rng.Intn(rows)]++
			}
			weight := make([]float64, rows)
			idx := make([]int, 0, rows)
			for i, d := range draws {
				if d > 0 {
					weight[i] = float64(d) * classWeights[y[i]]
					idx = append(idx, i)
				}
			}

			b := &treeBuilder{
				cols:            cols,
				y:               y,
				weight:          weight,
				rng:             rng,
				maxFeatures:     maxFeatures,
				minSamplesSplit: minSplit,
				maxDepth:        f.MaxDepth,
			}
			trees[t] = b.grow(idx, 0)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	f.Logger.Debug("forest trained",
		zap.String("model", f.Name()),
		zap.Int("trees", f.Trees),
		zap.Int("max_features", maxFeatures),
		zap.Int("jobs", jobs))

	return &ForestModel{trees: trees}, nil
}

// ForestModel is a fitted Forest.
type ForestModel struct {
	trees []*node
}

// Size returns the number of trees.
func (m *ForestModel) Size() int { return len(m.trees) }

// PredictProba implements Model. It averages the leaf class-1 shares of
// all trees.
func (m *ForestModel) PredictProba(X mat.Matrix) []float64 {
	rows, _ := X.Dims()
	out := make([]float64, rows)
	for i := 0; i < rows; i++ {
		at := func(j int) float64 { return X.At(i, j) }
		var sum float64
		for _, t := range m.trees {
			sum += t.predict(at)
		}
		out[i] = sum / float64(len(m.trees))
	}
	return out
}

// Predict implements Model.
func (m *ForestModel) Predict(X mat.Matrix) []int {
	return threshold(m.PredictProba(X))
}
