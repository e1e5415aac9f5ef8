// Copyright Climdyn Research, 2026. All rights reserved.

package ncio

import (
	"fmt"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"
)

// Reader gives typed access to a converted file. It is used by the
// subsampler, by post-conversion verification and by tests.
type Reader struct {
	g api.Group
}

// Open opens a NetCDF file for reading.
func Open(path string) (*Reader, error) {
	g, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return &Reader{g: g}, nil
}

// Close closes the underlying file.
func (r *Reader) Close() {
	r.g.Close()
}

// ListVariables returns the variable names in the file.
func (r *Reader) ListVariables() []string {
	return r.g.ListVariables()
}

// HasVariable reports whether the file contains the named variable.
func (r *Reader) HasVariable(name string) bool {
	for _, v := range r.g.ListVariables() {
		if v == name {
			return true
		}
	}
	return false
}

// GlobalAttr returns a global attribute value.
func (r *Reader) GlobalAttr(name string) (any, bool) {
	return r.g.Attributes().Get(name)
}

// GlobalString returns a global string attribute, or "" when absent.
func (r *Reader) GlobalString(name string) string {
	v, ok := r.GlobalAttr(name)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// Attr returns an attribute of the named variable.
func (r *Reader) Attr(varName, attr string) (any, bool) {
	vg, err := r.g.GetVarGetter(varName)
	if err != nil {
		return nil, false
	}
	return vg.Attributes().Get(attr)
}

// AttrString returns a string attribute of the named variable, or "".
func (r *Reader) AttrString(varName, attr string) string {
	v, ok := r.Attr(varName, attr)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (r *Reader) values(name string) (any, error) {
	v, err := r.g.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return v.Values, nil
}

// Floats reads a one-dimensional float32 variable.
func (r *Reader) Floats(name string) ([]float32, error) {
	v, err := r.values(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([]float32)
	if !ok {
		return nil, fmt.Errorf("%s: expected []float32, got %T", name, v)
	}
	return out, nil
}

// FloatScalar reads a scalar float32 variable.
func (r *Reader) FloatScalar(name string) (float32, error) {
	v, err := r.values(name)
	if err != nil {
		return 0, err
	}
	out, ok := v.(float32)
	if !ok {
		return 0, fmt.Errorf("%s: expected float32 scalar, got %T", name, v)
	}
	return out, nil
}

// Ints reads a one-dimensional int32 variable.
func (r *Reader) Ints(name string) ([]int32, error) {
	v, err := r.values(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([]int32)
	if !ok {
		return nil, fmt.Errorf("%s: expected []int32, got %T", name, v)
	}
	return out, nil
}

// Shorts2D reads a two-dimensional int16 variable (time_vectors).
func (r *Reader) Shorts2D(name string) ([][]int16, error) {
	v, err := r.values(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([][]int16)
	if !ok {
		return nil, fmt.Errorf("%s: expected [][]int16, got %T", name, v)
	}
	return out, nil
}

// Plane reads a two-dimensional float32 variable.
func (r *Reader) Plane(name string) ([][]float32, error) {
	v, err := r.values(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([][]float32)
	if !ok {
		return nil, fmt.Errorf("%s: expected [][]float32, got %T", name, v)
	}
	return out, nil
}

// Frames reads a three-dimensional float32 variable.
func (r *Reader) Frames(name string) ([][][]float32, error) {
	v, err := r.values(name)
	if err != nil {
		return nil, err
	}
	out, ok := v.([][][]float32)
	if !ok {
		return nil, fmt.Errorf("%s: expected [][][]float32, got %T", name, v)
	}
	return out, nil
}
