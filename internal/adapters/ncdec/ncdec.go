// Package ncdec reads NetCDF objects through go-native-netcdf. The analysis
// datasets arrive as NetCDF rather than GRIB2, so the extraction service
// needs both read paths.
package ncdec

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// ErrVariableNotFound signals that the file holds no matching data variable.
var ErrVariableNotFound = errors.New("variable not found")

// VariableSource is the slice of api.Group we select from.
type VariableSource interface {
	ListVariables() []string
	GetVariable(name string) (*api.Variable, error)
}

// Open opens the NetCDF file at path. The caller must Close the group.
func Open(path string) (api.Group, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open netcdf file: %w", err)
	}
	return g, nil
}

// FirstDataVariable returns the first listed variable that is not a
// coordinate, mirroring the "first data variable" rule on the GRIB side.
func FirstDataVariable(src VariableSource) (string, *api.Variable, error) {
	for _, name := range src.ListVariables() {
		v, err := src.GetVariable(name)
		if err != nil {
			return "", nil, fmt.Errorf("get variable %q: %w", name, err)
		}
		if isCoordinate(name, v) {
			continue
		}
		return name, v, nil
	}
	return "", nil, fmt.Errorf("no data variable: %w", ErrVariableNotFound)
}

// DataVariable returns the named data variable.
func DataVariable(src VariableSource, name string) (*api.Variable, error) {
	for _, candidate := range src.ListVariables() {
		if candidate != name {
			continue
		}
		v, err := src.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("get variable %q: %w", name, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("variable %q: %w", name, ErrVariableNotFound)
}

// A coordinate variable is named after one of its own dimensions.
func isCoordinate(name string, v *api.Variable) bool {
	return slices.Contains(v.Dimensions, name)
}

// Axis reads a 1-D coordinate variable, trying each name in order.
func Axis(src VariableSource, names ...string) ([]float64, error) {
	listed := src.ListVariables()
	for _, name := range names {
		if !slices.Contains(listed, name) {
			continue
		}
		v, err := src.GetVariable(name)
		if err != nil {
			return nil, fmt.Errorf("get axis %q: %w", name, err)
		}
		switch a := v.Values.(type) {
		case []float64:
			return a, nil
		case []float32:
			out := make([]float64, len(a))
			for i, x := range a {
				out[i] = float64(x)
			}
			return out, nil
		default:
			return nil, fmt.Errorf("axis %q has values of type %T", name, v.Values)
		}
	}
	return nil, fmt.Errorf("no axis variable (tried %s): %w", strings.Join(names, ", "), ErrVariableNotFound)
}

// Rows converts a variable's values into [][]float64 rows. Leading
// dimensions beyond the final two (time, level) are reduced to their first
// index.
func Rows(values interface{}) ([][]float64, error) {
	switch v := values.(type) {
	case [][]float64:
		return v, nil
	case [][]float32:
		rows := make([][]float64, len(v))
		for j, r := range v {
			row := make([]float64, len(r))
			for i, x := range r {
				row[i] = float64(x)
			}
			rows[j] = row
		}
		return rows, nil
	case [][][]float64:
		if len(v) == 0 {
			return nil, errors.New("empty outer dimension")
		}
		return Rows(v[0])
	case [][][]float32:
		if len(v) == 0 {
			return nil, errors.New("empty outer dimension")
		}
		return Rows(v[0])
	case [][][][]float64:
		if len(v) == 0 {
			return nil, errors.New("empty outer dimension")
		}
		return Rows(v[0])
	case [][][][]float32:
		if len(v) == 0 {
			return nil, errors.New("empty outer dimension")
		}
		return Rows(v[0])
	default:
		return nil, fmt.Errorf("unsupported values type %T", values)
	}
}
