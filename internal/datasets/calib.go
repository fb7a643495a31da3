package datasets

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Calibration composition helpers. Each dataset hard-codes its own matrix
// chain (see kitti.go, sunrgbd.go); these helpers only do the plain
// products and layout conversions between nested rows and mat.Dense.

// matProduct returns a @ b as nested rows.
func matProduct(a, b [][]float64) ([][]float64, error) {
	da, err := denseFrom(a)
	if err != nil {
		return nil, err
	}
	db, err := denseFrom(b)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.Mul(da, db)
	return rowsFrom(&out), nil
}

// transposed returns m^T as nested rows.
func transposed(m [][]float64) ([][]float64, error) {
	d, err := denseFrom(m)
	if err != nil {
		return nil, err
	}
	var out mat.Dense
	out.CloneFrom(d.T())
	return rowsFrom(&out), nil
}

// roundTo32 rounds every element to float32 precision, matching sources
// that store calibration in single precision. A fresh matrix is returned.
func roundTo32(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i, row := range m {
		out[i] = roundSliceTo32(row)
	}
	return out
}

func roundSliceTo32(fs []float64) []float64 {
	out := make([]float64, len(fs))
	for i, f := range fs {
		out[i] = float64(float32(f))
	}
	return out
}

func denseFrom(rows [][]float64) (*mat.Dense, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("empty calibration matrix")
	}
	cols := len(rows[0])
	data := make([]float64, 0, len(rows)*cols)
	for i, row := range rows {
		if len(row) != cols {
			return nil, fmt.Errorf("ragged calibration matrix: row %d has %d columns, want %d",
				i, len(row), cols)
		}
		data = append(data, row...)
	}
	return mat.NewDense(len(rows), cols, data), nil
}

func rowsFrom(m mat.Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := 0; i < r; i++ {
		row := make([]float64, c)
		for j := 0; j < c; j++ {
			row[j] = m.At(i, j)
		}
		out[i] = row
	}
	return out
}
