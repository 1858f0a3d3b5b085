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

// Package cf classifies the variables of a dataset that follows the CF
// (Climate and Forecast) metadata conventions and resolves the
// relationships encoded in their attributes, such as "coordinates",
// "bounds", "cell_measures", and "grid_mapping", into a queryable
// graph of typed roles. Loaders use the resulting graph to decide how
// the variables of a file assemble into labelled arrays with attached
// coordinate, bounds, and auxiliary metadata.
package cf

// Version gives the current version of Iris.
const Version = "0.1.0"

// Store provides read access to the variables, dimensions, and
// attributes of a self-describing dataset. Implementations must be
// usable for concurrent reads. The netcdf package provides a Store
// backed by a NetCDF file; tests may substitute in-memory stores.
type Store interface {
	// Variables returns the names of all variables in the dataset.
	// Names are unique within a dataset.
	Variables() []string

	// Dimensions returns the ordered dimension names of the named
	// variable. A scalar variable has no dimensions.
	Dimensions(name string) []string

	// Shape returns the length of each of the named variable's
	// dimensions, in the same order as Dimensions.
	Shape(name string) []int

	// IsString reports whether the named variable holds character
	// (string) data rather than numeric data.
	IsString(name string) bool

	// AttributeNames returns the names of the attributes declared on
	// the named variable.
	AttributeNames(name string) []string

	// Attribute returns the value of an attribute declared on the
	// named variable. Character attributes are returned as string;
	// numeric attributes as a slice of the stored type.
	Attribute(name, attr string) (interface{}, error)

	// GlobalAttributeNames returns the names of the dataset-level
	// attributes.
	GlobalAttributeNames() []string

	// GlobalAttribute returns the value of a dataset-level attribute.
	GlobalAttribute(attr string) (interface{}, error)

	// Values returns the entire contents of the named variable in
	// row-major order. Character variables are returned as []byte;
	// numeric variables as a slice of the stored type.
	Values(name string) (interface{}, error)
}

// Attr is a single attribute name and value.
type Attr struct {
	Name  string
	Value interface{}
}
