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
	"strings"
	"testing"
)

// projStore pairs a grid-mapping variable of every recognized kind
// with a data variable referencing it. Attribute values deliberately
// mix the numeric types a NetCDF store can deliver.
func projStore() *testStore {
	mappings := map[string]map[string]interface{}{
		"ll": {
			"grid_mapping_name": "latitude_longitude",
			"earth_radius":      []float64{6371000},
		},
		"rp": {
			"grid_mapping_name":         "rotated_latitude_longitude",
			"grid_north_pole_latitude":  []float64{18},
			"grid_north_pole_longitude": []float64{-140.75},
		},
		"rp_bare": {
			"grid_mapping_name": "rotated_latitude_longitude",
		},
		"merc": {
			"grid_mapping_name":              "mercator",
			"longitude_of_projection_origin": []float64{10},
			"standard_parallel":              []float64{20},
		},
		"tm": {
			"grid_mapping_name":                "transverse_mercator",
			"latitude_of_projection_origin":    []float64{49},
			"longitude_of_central_meridian":    []float64{-2},
			"scale_factor_at_central_meridian": []float64{0.9996012717},
			"false_easting":                    []float64{400000},
			"false_northing":                   []float64{-100000},
		},
		"lcc": {
			"grid_mapping_name":             "lambert_conformal_conic",
			"standard_parallel":             []float64{33, 45},
			"latitude_of_projection_origin": []float64{40},
			"longitude_of_central_meridian": []float64{-97},
			"semi_major_axis":               []float64{6378137},
			"inverse_flattening":            []float64{298.257222101},
		},
		"stere": {
			"grid_mapping_name":                 "stereographic",
			"latitude_of_projection_origin":     []float32{40},
			"longitude_of_projection_origin":    -100.0,
			"scale_factor_at_projection_origin": []int32{1},
		},
		"pstere": {
			"grid_mapping_name":                     "polar_stereographic",
			"straight_vertical_longitude_from_pole": []float64{-45},
			"standard_parallel":                     []int16{70},
		},
		"sinus": {
			"grid_mapping_name": "sinusoidal",
		},
		"anon": {},
		"numeric_name": {
			"grid_mapping_name": []float64{1},
		},
	}
	vars := make(map[string]*testVar)
	for name, attrs := range mappings {
		vars[name] = &testVar{str: true, attrs: attrs}
		vars["d_"+name] = &testVar{
			dims: []string{"y", "x"}, shape: []int{3, 4},
			attrs: map[string]interface{}{"grid_mapping": name},
		}
	}
	return newTestStore(vars, nil)
}

func TestProjString(t *testing.T) {
	r, err := NewReader(projStore())
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		want string
	}{
		{"ll", "+proj=longlat +a=6.371e+06 +b=6.371e+06"},
		{"rp", "+proj=ob_tran +o_proj=longlat +o_lon_p=0 +o_lat_p=18 +lon_0=39.25"},
		{"rp_bare", "+proj=ob_tran +o_proj=longlat +o_lon_p=0 +o_lat_p=90 +lon_0=180"},
		{"merc", "+proj=merc +lon_0=10 +lat_ts=20"},
		{"tm", "+proj=tmerc +lat_0=49 +lon_0=-2 +k_0=0.9996012717 +x_0=400000 +y_0=-100000"},
		{"lcc", "+proj=lcc +lat_1=33 +lat_2=45 +lat_0=40 +lon_0=-97 +x_0=0 +y_0=0 +a=6.378137e+06 +rf=298.257222101"},
		{"stere", "+proj=stere +lat_0=40 +lon_0=-100 +k_0=1 +x_0=0 +y_0=0"},
		{"pstere", "+proj=stere +lat_0=90 +lon_0=-45 +lat_ts=70 +x_0=0 +y_0=0"},
	}
	for _, c := range cases {
		v, err := r.Group().Variable(c.name)
		if err != nil {
			t.Fatal(err)
		}
		have, err := ProjString(v)
		if err != nil {
			t.Errorf("%s: %v", c.name, err)
			continue
		}
		if have != c.want {
			t.Errorf("%s: want %q but have %q", c.name, c.want, have)
		}
	}
}

func TestProjStringErrors(t *testing.T) {
	r, err := NewReader(projStore())
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		name string
		want string
	}{
		{"d_ll", `cf: variable "d_ll" is not a grid mapping variable`},
		{"anon", `cf: grid mapping variable "anon" has no grid_mapping_name attribute`},
		{"numeric_name", `cf: grid mapping variable "numeric_name" has no grid_mapping_name attribute`},
		{"sinus", `cf: unsupported grid mapping "sinusoidal" on variable "sinus"`},
	}
	for _, c := range cases {
		v, err := r.Group().Variable(c.name)
		if err != nil {
			t.Fatal(err)
		}
		_, err = ProjString(v)
		if err == nil || err.Error() != c.want {
			t.Errorf("%s: want error %q but have %v", c.name, c.want, err)
		}
	}
}

// Reading projection parameters consumes the attributes, so the
// used-attribute audit reflects a rendering pass.
func TestProjStringTouchesAttributes(t *testing.T) {
	r, err := NewReader(projStore())
	if err != nil {
		t.Fatal(err)
	}
	v, err := r.Group().Variable("rp")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := ProjString(v); err != nil {
		t.Fatal(err)
	}
	used, err := v.AttrsUsed()
	if err != nil {
		t.Fatal(err)
	}
	var haveNames []string
	for _, a := range used {
		haveNames = append(haveNames, a.Name)
	}
	want := strings.Join([]string{"grid_mapping_name", "grid_north_pole_latitude", "grid_north_pole_longitude"}, " ")
	if have := strings.Join(haveNames, " "); have != want {
		t.Errorf("want used attributes %q but have %q", want, have)
	}
}
