package dataset

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"
)

// Labeled pairs a feature table with its labels, row for row.
type Labeled struct {
	X dataframe.DataFrame
	Y []int
}

// Subset returns the rows at idx, in idx order.
func (d Labeled) Subset(idx []int) Labeled {
	y := make([]int, len(idx))
	for i, row := range idx {
		y[i] = d.Y[row]
	}
	return Labeled{X: d.X.Subset(idx), Y: y}
}

// Split partitions the rows into a training and a validation set with the
// class ratio preserved in both. See StratifiedSplit.
func (d Labeled) Split(testSize float64, seed int64) (Labeled, Labeled, error) {
	if d.X.Nrow() != len(d.Y) {
		return Labeled{}, Labeled{}, fmt.Errorf("features have %d rows, labels have %d", d.X.Nrow(), len(d.Y))
	}
	trainIdx, testIdx, err := StratifiedSplit(d.Y, testSize, seed)
	if err != nil {
		return Labeled{}, Labeled{}, err
	}
	return d.Subset(trainIdx), d.Subset(testIdx), nil
}

// StratifiedSplit returns row indexes for a train/test partition of y.
// The test partition holds ceil(testSize*n) rows spread over the classes in
// proportion to their frequency (largest remainder). Members of each class
// are shuffled with a source seeded by seed, so equal inputs give equal
// partitions. Both index slices are returned in ascending order.
func StratifiedSplit(y []int, testSize float64, seed int64) ([]int, []int, error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be in (0, 1), got %v", testSize)
	}

	members := make(map[int][]int)
	for i, label := range y {
		members[label] = append(members[label], i)
	}
	classes := make([]int, 0, len(members))
	for c := range members {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	if len(classes) < 2 {
		return nil, nil, fmt.Errorf("%w: found %d distinct label(s) in %d rows", ErrSingleClass, len(classes), len(y))
	}
	for _, c := range classes {
		if len(members[c]) < 2 {
			return nil, nil, fmt.Errorf("%w: class %d has %d", ErrTooFewMembers, c, len(members[c]))
		}
	}

	n := len(y)
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < len(classes) || n-nTest < len(classes) {
		return nil, nil, fmt.Errorf("test size %d of %d rows cannot hold %d classes in both partitions", nTest, n, len(classes))
	}

	alloc := allocate(classes, members, n, nTest)

	rng := rand.New(rand.NewSource(seed))
	train := make([]int, 0, n-nTest)
	test := make([]int, 0, nTest)
	for _, c := range classes {
		idx := append([]int(nil), members[c]...)
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })
		test = append(test, idx[:alloc[c]]...)
		train = append(train, idx[alloc[c]:]...)
	}

	sort.Ints(train)
	sort.Ints(test)
	return train, test, nil
}

// allocate distributes nTest rows across classes by largest remainder.
func allocate(classes []int, members map[int][]int, n, nTest int) map[int]int {
	type share struct {
		class int
		frac  float64
	}

	alloc := make(map[int]int, len(classes))
	shares := make([]share, 0, len(classes))
	assigned := 0
	for _, c := range classes {
		exact := float64(nTest) * float64(len(members[c])) / float64(n)
		whole := int(math.Floor(exact))
		alloc[c] = whole
		assigned += whole
		shares = append(shares, share{class: c, frac: exact - float64(whole)})
	}

	// Stable sort keeps the lower class first on equal remainders.
	sort.SliceStable(shares, func(i, j int) bool { return shares[i].frac > shares[j].frac })
	for i := 0; assigned < nTest; i = (i + 1) % len(shares) {
		c := shares[i].class
		if alloc[c] < len(members[c]) {
			alloc[c]++
			assigned++
		}
	}
	return alloc
}
