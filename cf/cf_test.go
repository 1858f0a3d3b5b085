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

package cf

import (
	"fmt"
	"sort"
)

// testVar is one variable of a testStore. Attribute values follow the
// conventions of the netcdf package: strings for character data,
// typed slices for numeric data.
type testVar struct {
	dims  []string
	shape []int
	str   bool
	attrs map[string]interface{}
	data  interface{}
}

// testStore is an in-memory Store that counts how often each part of
// it is queried.
type testStore struct {
	vars    map[string]*testVar
	globals map[string]interface{}

	attrNameCalls map[string]int
	attrCalls     map[string]int
	valueCalls    map[string]int
}

func newTestStore(vars map[string]*testVar, globals map[string]interface{}) *testStore {
	return &testStore{
		vars:          vars,
		globals:       globals,
		attrNameCalls: make(map[string]int),
		attrCalls:     make(map[string]int),
		valueCalls:    make(map[string]int),
	}
}

func (s *testStore) Variables() []string {
	var names []string
	for name := range s.vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *testStore) Dimensions(name string) []string { return s.vars[name].dims }

func (s *testStore) Shape(name string) []int { return s.vars[name].shape }

func (s *testStore) IsString(name string) bool { return s.vars[name].str }

func (s *testStore) AttributeNames(name string) []string {
	s.attrNameCalls[name]++
	var names []string
	for a := range s.vars[name].attrs {
		names = append(names, a)
	}
	return names
}

func (s *testStore) Attribute(name, attr string) (interface{}, error) {
	s.attrCalls[name+":"+attr]++
	val, ok := s.vars[name].attrs[attr]
	if !ok {
		return nil, fmt.Errorf("no attribute %q on variable %q", attr, name)
	}
	return val, nil
}

func (s *testStore) GlobalAttributeNames() []string {
	var names []string
	for a := range s.globals {
		names = append(names, a)
	}
	return names
}

func (s *testStore) GlobalAttribute(attr string) (interface{}, error) {
	val, ok := s.globals[attr]
	if !ok {
		return nil, fmt.Errorf("no global attribute %q", attr)
	}
	return val, nil
}

func (s *testStore) Values(name string) (interface{}, error) {
	s.valueCalls[name]++
	v, ok := s.vars[name]
	if !ok {
		return nil, fmt.Errorf("no variable %q", name)
	}
	return v.data, nil
}

// rotatedPoleStore mimics a regional climate dataset on a rotated
// pole grid: a precipitation field with two-dimensional latitude and
// longitude coordinates, a time coordinate with bounds, and a scalar
// grid mapping variable.
func rotatedPoleStore() *testStore {
	return newTestStore(map[string]*testVar{
		"time": {
			dims: []string{"time"}, shape: []int{4},
			attrs: map[string]interface{}{
				"units":  "days since 1949-12-01 00:00:00",
				"bounds": "time_bnds",
			},
			data: []float64{15, 45, 75, 105},
		},
		"time_bnds": {
			dims: []string{"time", "bnds"}, shape: []int{4, 2},
			data: []float64{0, 30, 30, 60, 60, 90, 90, 120},
		},
		"rlat": {
			dims: []string{"rlat"}, shape: []int{190},
			attrs: map[string]interface{}{
				"standard_name": "grid_latitude",
				"units":         "degrees",
			},
			data: []float64{-20.25, -20.03, -19.81},
		},
		"rlon": {
			dims: []string{"rlon"}, shape: []int{174},
			attrs: map[string]interface{}{
				"standard_name": "grid_longitude",
				"units":         "degrees",
			},
		},
		"lat": {
			dims: []string{"rlat", "rlon"}, shape: []int{190, 174},
			attrs: map[string]interface{}{
				"standard_name": "latitude",
				"units":         "degrees_north",
			},
		},
		"lon": {
			dims: []string{"rlat", "rlon"}, shape: []int{190, 174},
			attrs: map[string]interface{}{
				"standard_name": "longitude",
				"units":         "degrees_east",
			},
		},
		"rotated_pole": {
			str: true,
			attrs: map[string]interface{}{
				"grid_mapping_name":         "rotated_latitude_longitude",
				"grid_north_pole_latitude":  []float64{18},
				"grid_north_pole_longitude": []float64{-140.75},
			},
		},
		"pr": {
			dims: []string{"time", "rlat", "rlon"}, shape: []int{4, 190, 174},
			attrs: map[string]interface{}{
				"standard_name": "precipitation_flux",
				"units":         "kg m-2 s-1",
				"coordinates":   "lon lat",
				"grid_mapping":  "rotated_pole",
			},
		},
	}, map[string]interface{}{
		"Conventions": "CF-1.0",
		"institution": "climate model test suite",
	})
}

// varNames returns the sorted names of a category view.
func varNames(vars map[string]*Variable) []string {
	var out []string
	for name := range vars {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
