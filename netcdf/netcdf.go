/*
Copyright © 2023 the Iris authors.
This file is part of Iris.

Iris is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Iris is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Iris.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package netcdf adapts NetCDF classic-format (CDF-1 and CDF-2)
// datasets to the cf.Store interface.
package netcdf

import (
	"fmt"
	"os"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// Store provides access to the variables and attributes of a NetCDF
// dataset. It implements cf.Store.
type Store struct {
	cdf.File

	f       *os.File // non-nil when the Store owns the underlying file
	numRecs int
}

// New creates a Store from the NetCDF dataset held by rw. When rw can
// report its size (as an *os.File can), the length of the record
// dimension is computed from it; otherwise record dimensions report
// length zero.
func New(rw cdf.ReaderWriterAt) (*Store, error) {
	ff, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("netcdf: opening dataset: %v", err)
	}
	s := &Store{File: *ff}
	if st, ok := rw.(interface {
		Stat() (os.FileInfo, error)
	}); ok {
		fi, err := st.Stat()
		if err != nil {
			return nil, fmt.Errorf("netcdf: opening dataset: %v", err)
		}
		s.numRecs = int(s.Header.NumRecs(fi.Size()))
	}
	return s, nil
}

// Open creates a Store from the NetCDF file at path. The returned
// Store owns the file; call Close when finished with it.
func Open(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	s, err := New(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.f = f
	return s, nil
}

// Close releases the underlying file, if the Store owns one.
func (s *Store) Close() error {
	if s.f == nil {
		return nil
	}
	return s.f.Close()
}

// Variables returns the names of all variables in the dataset.
func (s *Store) Variables() []string { return s.Header.Variables() }

// Dimensions returns the dimension names of the named variable, in
// the order they are declared on it.
func (s *Store) Dimensions(name string) []string { return s.Header.Dimensions(name) }

// Shape returns the dimension lengths of the named variable. The
// record dimension reports the number of records currently in the
// dataset.
func (s *Store) Shape(name string) []int {
	lengths := append([]int(nil), s.Header.Lengths(name)...)
	if len(lengths) > 0 && lengths[0] == 0 && s.Header.IsRecordVariable(name) {
		lengths[0] = s.numRecs
	}
	return lengths
}

// IsString reports whether the named variable holds character data.
func (s *Store) IsString(name string) bool {
	_, ok := s.Header.ZeroValue(name, 0).(string)
	return ok
}

// AttributeNames returns the names of the attributes of the named
// variable.
func (s *Store) AttributeNames(name string) []string { return s.Header.Attributes(name) }

// Attribute returns the value of attribute attr of the named
// variable. Character attributes are returned as string; numeric
// attributes as a slice of the stored type.
func (s *Store) Attribute(name, attr string) (interface{}, error) {
	val := s.Header.GetAttribute(name, attr)
	if val == nil {
		return nil, fmt.Errorf("netcdf: variable %q has no attribute %q", name, attr)
	}
	return val, nil
}

// GlobalAttributeNames returns the names of the dataset's global
// attributes.
func (s *Store) GlobalAttributeNames() []string { return s.Header.Attributes("") }

// GlobalAttribute returns the value of the named global attribute.
func (s *Store) GlobalAttribute(attr string) (interface{}, error) {
	val := s.Header.GetAttribute("", attr)
	if val == nil {
		return nil, fmt.Errorf("netcdf: dataset has no global attribute %q", attr)
	}
	return val, nil
}

// Values reads the entire contents of the named variable. Character
// variables are returned as []byte in row-major order; numeric
// variables as a slice of the stored type.
func (s *Store) Values(name string) (interface{}, error) {
	if s.Header.ZeroValue(name, 0) == nil {
		return nil, fmt.Errorf("netcdf: variable %q is not in the dataset", name)
	}
	shape := s.Shape(name)
	n := 1
	for _, l := range shape {
		n *= l
	}
	// A record variable needs an explicit end corner: a reader left
	// open-ended stops after the first record.
	var begin, end []int
	if n > 0 && s.Header.IsRecordVariable(name) {
		begin = make([]int, len(shape))
		end = make([]int, len(shape))
		for i, l := range shape {
			end[i] = l - 1
		}
	}
	r := s.File.Reader(name, begin, end)
	buf := r.Zero(n)
	if n == 0 {
		return buf, nil
	}
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("netcdf: reading variable %q: %v", name, err)
	}
	return buf, nil
}

// ReadFull reads the entire contents of the named numeric variable
// into a dense array, converting the stored values to float64.
func (s *Store) ReadFull(name string) (*sparse.DenseArray, error) {
	if s.IsString(name) {
		return nil, fmt.Errorf("netcdf: variable %q holds text, not numbers", name)
	}
	vals, err := s.Values(name)
	if err != nil {
		return nil, err
	}
	data := sparse.ZerosDense(s.Shape(name)...)
	switch t := vals.(type) {
	case []float64:
		copy(data.Elements, t)
	case []float32:
		for i, val := range t {
			data.Elements[i] = float64(val)
		}
	case []int32:
		for i, val := range t {
			data.Elements[i] = float64(val)
		}
	case []int16:
		for i, val := range t {
			data.Elements[i] = float64(val)
		}
	case []uint8:
		for i, val := range t {
			data.Elements[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("netcdf: variable %q has unexpected type %T", name, vals)
	}
	return data, nil
}
