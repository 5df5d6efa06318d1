package preprocess

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/mat"
)

// ColumnTransformer standardizes numeric columns and one-hot encodes
// categorical columns. Columns not listed are ignored.
type ColumnTransformer struct {
	Numeric     []string
	Categorical []string
}

// Fitted is a ColumnTransformer with learned parameters.
type Fitted struct {
	scaler   *Scaler
	encoders []*OneHot
	width    int
}

// Fit learns scaling and vocabulary from df.
func (ct ColumnTransformer) Fit(df dataframe.DataFrame) (*Fitted, error) {
	scaler, err := FitScaler(df, ct.Numeric)
	if err != nil {
		return nil, err
	}

	f := &Fitted{scaler: scaler, width: len(ct.Numeric)}
	for _, col := range ct.Categorical {
		enc, err := FitOneHot(df, col)
		if err != nil {
			return nil, err
		}
		f.encoders = append(f.encoders, enc)
		f.width += len(enc.Categories)
	}
	return f, nil
}

// Width is the number of output columns.
func (f *Fitted) Width() int {
	if f == nil {
		return 0
	}
	return f.width
}

// Transform maps df to a rows x Width matrix: scaled numeric columns first,
// then the indicator block of each categorical column.
func (f *Fitted) Transform(df dataframe.DataFrame) (*mat.Dense, error) {
	if f == nil || f.scaler == nil {
		return nil, ErrNotFitted
	}
	rows := df.Nrow()
	if rows == 0 || f.width == 0 {
		return &mat.Dense{}, nil
	}

	X := mat.NewDense(rows, f.width, nil)
	if err := f.scaler.apply(df, X, 0); err != nil {
		return nil, err
	}
	offset := len(f.scaler.Columns)
	for _, enc := range f.encoders {
		if err := enc.apply(df, X, offset); err != nil {
			return nil, err
		}
		offset += len(enc.Categories)
	}
	return X, nil
}

// FeatureNames lists the output columns, e.g. num__amount or cat__type_DEBIT.
func (f *Fitted) FeatureNames() []string {
	if f == nil || f.scaler == nil {
		return nil
	}
	names := make([]string, 0, f.width)
	for _, c := range f.scaler.Columns {
		names = append(names, "num__"+c)
	}
	for _, enc := range f.encoders {
		for _, cat := range enc.Categories {
			names = append(names, "cat__"+enc.Column+"_"+cat)
		}
	}
	return names
}
