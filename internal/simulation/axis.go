package simulation

import (
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"squad-formation-sim/internal/common"
)

// PrincipalAxis returns the direction along which points are most spread
// and how elongated the spread is: 0 for an isotropic cloud, 1 for points
// on a line. The axis points towards positive X, or positive Y when it is
// vertical.
// ok is false for fewer than two points or when all points coincide.
func PrincipalAxis(points []common.Vector) (axis common.Vector, elongation float64, ok bool) {
	if len(points) < 2 {
		return common.Vector{}, 0, false
	}
	data := make([]float64, 0, 2*len(points))
	for _, p := range points {
		data = append(data, p.X, p.Y)
	}

	var pc stat.PC
	if !pc.PrincipalComponents(mat.NewDense(len(points), 2, data), nil) {
		return common.Vector{}, 0, false
	}
	vars := pc.VarsTo(nil)
	if len(vars) == 0 || vars[0] <= 0 {
		return common.Vector{}, 0, false
	}

	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	axis = common.NewVector(vecs.At(0, 0), vecs.At(1, 0)).Normalize()
	if scalar.EqualWithinAbs(axis.X, 0, common.DefaultEpsilon) {
		if axis.Y < 0 {
			axis = axis.Neg()
		}
	} else if axis.X < 0 {
		axis = axis.Neg()
	}

	second := 0.0
	if len(vars) > 1 {
		second = vars[1]
	}
	return axis, 1 - second/vars[0], true
}
