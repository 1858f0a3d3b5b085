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
	"strings"
)

// Category identifies the semantic roles a variable plays within a
// dataset. Categories are a bit set: classification is additive and a
// variable may hold several roles at once, for example a bounds
// variable that another variable also names as a climatology pointer.
type Category uint16

const (
	// DataVariable is a variable holding geophysical data; the
	// remainder after every other category has been assigned.
	DataVariable Category = 1 << iota
	// CoordinateVariable is a one-dimensional numeric variable whose
	// name equals its dimension.
	CoordinateVariable
	// AuxiliaryCoordinateVariable is a numeric variable named by
	// another variable's "coordinates" attribute.
	AuxiliaryCoordinateVariable
	// BoundsVariable holds the cell extents of another variable.
	BoundsVariable
	// CellMeasureVariable holds per-cell areas or volumes.
	CellMeasureVariable
	// GridMappingVariable holds coordinate reference system
	// parameters.
	GridMappingVariable
	// LabelVariable is a string-valued variable named by another
	// variable's "coordinates" attribute.
	LabelVariable
	// AncillaryVariable holds per-cell quality or provenance data for
	// a data variable.
	AncillaryVariable
	// ClimatologyBoundsVariable holds the extents of a repeating or
	// aggregated time period.
	ClimatologyBoundsVariable
)

// categoryNames holds the section title for every recognized category.
var categoryNames = map[Category]string{
	DataVariable:                "data variable",
	CoordinateVariable:          "coordinate",
	AuxiliaryCoordinateVariable: "auxiliary coordinate",
	BoundsVariable:              "bounds",
	CellMeasureVariable:         "cell measure",
	GridMappingVariable:         "grid mapping",
	LabelVariable:               "label",
	AncillaryVariable:           "ancillary variable",
	ClimatologyBoundsVariable:   "climatology bounds",
}

// String returns the section titles of the categories set in c,
// comma-separated. It panics on a category with no registered section
// title: that is an internal bookkeeping failure, not a data problem.
func (c Category) String() string {
	if c == 0 {
		return "unclassified"
	}
	var titles []string
	for bit := Category(1); bit != 0; bit <<= 1 {
		if c&bit == 0 {
			continue
		}
		title, ok := categoryNames[bit]
		if !ok {
			panic(fmt.Errorf("cf: unrecognized variable category %#x", uint16(bit)))
		}
		titles = append(titles, title)
	}
	return strings.Join(titles, ", ")
}

// split returns the individual categories set in c, in declaration
// order.
func (c Category) split() []Category {
	var out []Category
	for bit := Category(1); bit != 0; bit <<= 1 {
		if c&bit != 0 {
			out = append(out, bit)
		}
	}
	return out
}

// MissingAttributeError is returned when an attribute is requested
// that is not declared on the variable.
type MissingAttributeError struct {
	Var, Attr string
}

func (e MissingAttributeError) Error() string {
	return fmt.Sprintf("cf: variable %q has no attribute %q", e.Var, e.Attr)
}

// Variable is a dataset variable together with its assigned categories
// and its one-hop neighborhood of related variables. Variables are
// created by NewReader and are structurally immutable afterwards; only
// the attribute touch history changes, through Attr and AttrsReset.
type Variable struct {
	name       string
	dimensions []string
	shape      []int
	str        bool
	categories Category

	// measure is the cell-measure kind ("area" or "volume") when the
	// variable is a CellMeasureVariable.
	measure string
	// termsByRoot maps the names of variables whose "formula_terms"
	// attribute names this variable to the term it plays there.
	termsByRoot map[string]string

	group *Group
	owner *Reader

	// Attribute cache: the declared names are fetched once at
	// construction, values at most once per attribute, and the touch
	// history records which attributes have been consumed.
	attrNames  []string
	attrValues map[string]interface{}
	touched    map[string]bool
}

// newVariable wraps the named store variable, fetching its dimensions,
// shape, and declared attribute names exactly once.
func newVariable(r *Reader, name string) *Variable {
	attrs := append([]string(nil), r.store.AttributeNames(name)...)
	sort.Strings(attrs)
	return &Variable{
		name:       name,
		dimensions: append([]string(nil), r.store.Dimensions(name)...),
		shape:      append([]int(nil), r.store.Shape(name)...),
		str:        r.store.IsString(name),
		owner:      r,
		attrNames:  attrs,
		attrValues: make(map[string]interface{}),
		touched:    make(map[string]bool),
		group:      newGroup(),
	}
}

// Name returns the variable's name.
func (v *Variable) Name() string { return v.name }

func (v *Variable) String() string { return v.name }

// Dimensions returns the variable's ordered dimension names.
func (v *Variable) Dimensions() []string {
	return append([]string(nil), v.dimensions...)
}

// Shape returns the length of each of the variable's dimensions.
func (v *Variable) Shape() []int {
	return append([]int(nil), v.shape...)
}

// NDim returns the number of dimensions of the variable.
func (v *Variable) NDim() int { return len(v.dimensions) }

// IsString reports whether the variable holds character data.
func (v *Variable) IsString() bool { return v.str }

// Is reports whether every category in c has been assigned to the
// variable.
func (v *Variable) Is(c Category) bool { return v.categories&c == c }

// Categories returns the individual categories assigned to the
// variable.
func (v *Variable) Categories() []Category { return v.categories.split() }

func (v *Variable) addCategory(c Category) { v.categories |= c }

// Measure returns the cell-measure kind ("area" or "volume") parsed
// from the referencing "cell_measures" attribute, or an empty string
// for variables that are not cell measures.
func (v *Variable) Measure() string { return v.measure }

// FormulaTermsByRoot maps the name of each variable whose
// "formula_terms" attribute names this variable to the formula term it
// provides there.
func (v *Variable) FormulaTermsByRoot() map[string]string {
	out := make(map[string]string, len(v.termsByRoot))
	for root, term := range v.termsByRoot {
		out[root] = term
	}
	return out
}

func (v *Variable) addFormulaTerm(root, term string) {
	if v.termsByRoot == nil {
		v.termsByRoot = make(map[string]string)
	}
	v.termsByRoot[root] = term
}

// Group returns the variable's one-hop neighborhood: the variables it
// references by name, the variables that reference it back, and, for a
// data variable, the coordinate variables named by its dimensions.
func (v *Variable) Group() *Group { return v.group }

// HasAttr reports whether the named attribute is declared on the
// variable, without touching it.
func (v *Variable) HasAttr(name string) bool {
	i := sort.SearchStrings(v.attrNames, name)
	return i < len(v.attrNames) && v.attrNames[i] == name
}

// AttrNames returns the variable's declared attribute names, sorted.
func (v *Variable) AttrNames() []string {
	return append([]string(nil), v.attrNames...)
}

// Attr returns the value of the named attribute and records the name
// as used. The value is fetched from the store at most once per
// attribute for the life of the variable; a MissingAttributeError is
// returned for names not declared on the variable.
func (v *Variable) Attr(name string) (interface{}, error) {
	if !v.HasAttr(name) {
		return nil, MissingAttributeError{Var: v.name, Attr: name}
	}
	val, err := v.attrValue(name)
	if err != nil {
		return nil, err
	}
	v.touched[name] = true
	return val, nil
}

// attrValue returns the memoized value of a declared attribute,
// querying the store only on the first request.
func (v *Variable) attrValue(name string) (interface{}, error) {
	if val, ok := v.attrValues[name]; ok {
		return val, nil
	}
	val, err := v.owner.store.Attribute(v.name, name)
	if err != nil {
		return nil, fmt.Errorf("cf: reading attribute %q of variable %q: %v", name, v.name, err)
	}
	v.attrValues[name] = val
	return val, nil
}

// attrString returns the named attribute as a string, touching it. The
// second result is false when the attribute is absent or does not hold
// character data; store failures are returned as errors.
func (v *Variable) attrString(name string) (string, bool, error) {
	if !v.HasAttr(name) {
		return "", false, nil
	}
	val, err := v.Attr(name)
	if err != nil {
		return "", false, err
	}
	s, ok := val.(string)
	return s, ok, nil
}

// Attrs returns every declared attribute with its value, sorted by
// name. Listing attributes does not mark them as used.
func (v *Variable) Attrs() ([]Attr, error) {
	return v.attrPairs(func(string) bool { return true })
}

// AttrsUsed returns the attributes that have been read since
// construction or the last AttrsReset, sorted by name.
func (v *Variable) AttrsUsed() ([]Attr, error) {
	return v.attrPairs(func(name string) bool { return v.touched[name] })
}

// AttrsUnused returns the declared attributes that have not been read
// since construction or the last AttrsReset, sorted by name.
func (v *Variable) AttrsUnused() ([]Attr, error) {
	return v.attrPairs(func(name string) bool { return !v.touched[name] })
}

// AttrsReset clears the attribute touch history. Cached values are
// kept: re-reading an attribute after a reset marks it used again
// without querying the store.
func (v *Variable) AttrsReset() {
	v.touched = make(map[string]bool)
}

func (v *Variable) attrPairs(include func(name string) bool) ([]Attr, error) {
	var pairs []Attr
	for _, name := range v.attrNames {
		if !include(name) {
			continue
		}
		val, err := v.attrValue(name)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, Attr{Name: name, Value: val})
	}
	return pairs, nil
}
