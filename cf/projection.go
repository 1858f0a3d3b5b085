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
	"strings"
)

// ProjString translates the attributes of a grid-mapping variable into
// a PROJ.4 projection string. The recognized "grid_mapping_name"
// values are latitude_longitude, rotated_latitude_longitude, mercator,
// transverse_mercator, lambert_conformal_conic, stereographic, and
// polar_stereographic. Ellipsoid attributes (semi_major_axis,
// semi_minor_axis, inverse_flattening, earth_radius,
// longitude_of_prime_meridian) are appended when present. Whether the
// resulting string parses depends on the consumer; proj.Parse from
// github.com/ctessum/geom/proj handles the non-rotated projections.
func ProjString(v *Variable) (string, error) {
	if !v.Is(GridMappingVariable) {
		return "", fmt.Errorf("cf: variable %q is not a grid mapping variable", v.name)
	}
	name, ok, err := v.attrString("grid_mapping_name")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("cf: grid mapping variable %q has no grid_mapping_name attribute", v.name)
	}

	var p projParams
	switch name {
	case "latitude_longitude":
		p.add("proj", "longlat")
	case "rotated_latitude_longitude":
		p.add("proj", "ob_tran")
		p.add("o_proj", "longlat")
		p.addFloat("o_lon_p", v.attrFloatDefault("north_pole_grid_longitude", 0))
		p.addFloat("o_lat_p", v.attrFloatDefault("grid_north_pole_latitude", 90))
		p.addFloat("lon_0", 180+v.attrFloatDefault("grid_north_pole_longitude", 0))
	case "mercator":
		p.add("proj", "merc")
		p.addFloat("lon_0", v.attrFloatDefault("longitude_of_projection_origin", 0))
		if ts, ok := v.attrFloat("standard_parallel"); ok {
			p.addFloat("lat_ts", ts)
		}
	case "transverse_mercator":
		p.add("proj", "tmerc")
		p.addFloat("lat_0", v.attrFloatDefault("latitude_of_projection_origin", 0))
		p.addFloat("lon_0", v.attrFloatDefault("longitude_of_central_meridian", 0))
		p.addFloat("k_0", v.attrFloatDefault("scale_factor_at_central_meridian", 1))
		p.addFloat("x_0", v.attrFloatDefault("false_easting", 0))
		p.addFloat("y_0", v.attrFloatDefault("false_northing", 0))
	case "lambert_conformal_conic":
		p.add("proj", "lcc")
		parallels := v.attrFloatList("standard_parallel")
		if len(parallels) > 0 {
			p.addFloat("lat_1", parallels[0])
		}
		if len(parallels) > 1 {
			p.addFloat("lat_2", parallels[1])
		}
		p.addFloat("lat_0", v.attrFloatDefault("latitude_of_projection_origin", 0))
		p.addFloat("lon_0", v.attrFloatDefault("longitude_of_central_meridian", 0))
		p.addFloat("x_0", v.attrFloatDefault("false_easting", 0))
		p.addFloat("y_0", v.attrFloatDefault("false_northing", 0))
	case "stereographic":
		p.add("proj", "stere")
		p.addFloat("lat_0", v.attrFloatDefault("latitude_of_projection_origin", 0))
		p.addFloat("lon_0", v.attrFloatDefault("longitude_of_projection_origin", 0))
		p.addFloat("k_0", v.attrFloatDefault("scale_factor_at_projection_origin", 1))
		p.addFloat("x_0", v.attrFloatDefault("false_easting", 0))
		p.addFloat("y_0", v.attrFloatDefault("false_northing", 0))
	case "polar_stereographic":
		p.add("proj", "stere")
		p.addFloat("lat_0", v.attrFloatDefault("latitude_of_projection_origin", 90))
		p.addFloat("lon_0", v.attrFloatDefault("straight_vertical_longitude_from_pole", 0))
		if ts, ok := v.attrFloat("standard_parallel"); ok {
			p.addFloat("lat_ts", ts)
		}
		if k, ok := v.attrFloat("scale_factor_at_projection_origin"); ok {
			p.addFloat("k_0", k)
		}
		p.addFloat("x_0", v.attrFloatDefault("false_easting", 0))
		p.addFloat("y_0", v.attrFloatDefault("false_northing", 0))
	default:
		return "", fmt.Errorf("cf: unsupported grid mapping %q on variable %q", name, v.name)
	}

	if a, ok := v.attrFloat("semi_major_axis"); ok {
		p.addFloat("a", a)
	}
	if b, ok := v.attrFloat("semi_minor_axis"); ok {
		p.addFloat("b", b)
	}
	if rf, ok := v.attrFloat("inverse_flattening"); ok {
		p.addFloat("rf", rf)
	}
	if radius, ok := v.attrFloat("earth_radius"); ok {
		p.addFloat("a", radius)
		p.addFloat("b", radius)
	}
	if pm, ok := v.attrFloat("longitude_of_prime_meridian"); ok {
		p.addFloat("pm", pm)
	}
	return p.String(), nil
}

type projParams []string

func (p *projParams) add(key, value string) {
	*p = append(*p, fmt.Sprintf("+%s=%s", key, value))
}

func (p *projParams) addFloat(key string, value float64) {
	p.add(key, fmt.Sprintf("%g", value))
}

func (p projParams) String() string { return strings.Join(p, " ") }

// attrFloat returns the named attribute coerced to a float64. Numeric
// attributes arrive from NetCDF stores as single-element slices of the
// stored type.
func (v *Variable) attrFloat(name string) (float64, bool) {
	vals := v.attrFloatList(name)
	if len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

func (v *Variable) attrFloatDefault(name string, def float64) float64 {
	if f, ok := v.attrFloat(name); ok {
		return f
	}
	return def
}

// attrFloatList returns the named attribute coerced to a []float64,
// or nil when the attribute is absent or not numeric.
func (v *Variable) attrFloatList(name string) []float64 {
	if !v.HasAttr(name) {
		return nil
	}
	val, err := v.Attr(name)
	if err != nil {
		return nil
	}
	switch t := val.(type) {
	case float64:
		return []float64{t}
	case float32:
		return []float64{float64(t)}
	case int:
		return []float64{float64(t)}
	case []float64:
		return append([]float64(nil), t...)
	case []float32:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return out
	case []int32:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return out
	case []int16:
		out := make([]float64, len(t))
		for i, x := range t {
			out[i] = float64(x)
		}
		return out
	default:
		return nil
	}
}
