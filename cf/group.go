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

// NotFoundError is returned when a requested variable name is not
// present in a Group.
type NotFoundError struct {
	Name string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("cf: variable %q is not in the group", e.Name)
}

// Group is a collection of classified variables keyed by name. The
// Reader's top-level Group holds every variable in the dataset along
// with the dataset's global attributes; each Variable additionally
// owns a Group holding its one-hop neighborhood. The category views
// are derived from the variables' category sets on every call, so two
// calls always agree with each other and with Variable.Is.
type Group struct {
	variables   map[string]*Variable
	globalAttrs map[string]interface{}
}

func newGroup() *Group {
	return &Group{variables: make(map[string]*Variable)}
}

func (g *Group) add(v *Variable) { g.variables[v.name] = v }

// Len returns the number of variables in the group.
func (g *Group) Len() int { return len(g.variables) }

// Has reports whether the named variable is in the group.
func (g *Group) Has(name string) bool {
	_, ok := g.variables[name]
	return ok
}

// Variable returns the named variable, or a NotFoundError if the group
// does not contain it.
func (g *Group) Variable(name string) (*Variable, error) {
	v, ok := g.variables[name]
	if !ok {
		return nil, NotFoundError{Name: name}
	}
	return v, nil
}

// Names returns the names of all variables in the group, sorted.
func (g *Group) Names() []string {
	names := make([]string, 0, len(g.variables))
	for name := range g.variables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// byCategory returns the group's variables holding category c.
func (g *Group) byCategory(c Category) map[string]*Variable {
	out := make(map[string]*Variable)
	for name, v := range g.variables {
		if v.Is(c) {
			out[name] = v
		}
	}
	return out
}

// DataVariables returns the group's data variables.
func (g *Group) DataVariables() map[string]*Variable {
	return g.byCategory(DataVariable)
}

// Coordinates returns the group's coordinate variables.
func (g *Group) Coordinates() map[string]*Variable {
	return g.byCategory(CoordinateVariable)
}

// AuxiliaryCoordinates returns the group's auxiliary coordinate
// variables.
func (g *Group) AuxiliaryCoordinates() map[string]*Variable {
	return g.byCategory(AuxiliaryCoordinateVariable)
}

// Bounds returns the group's bounds variables.
func (g *Group) Bounds() map[string]*Variable {
	return g.byCategory(BoundsVariable)
}

// CellMeasures returns the group's cell-measure variables.
func (g *Group) CellMeasures() map[string]*Variable {
	return g.byCategory(CellMeasureVariable)
}

// GridMappings returns the group's grid-mapping variables.
func (g *Group) GridMappings() map[string]*Variable {
	return g.byCategory(GridMappingVariable)
}

// Labels returns the group's label variables.
func (g *Group) Labels() map[string]*Variable {
	return g.byCategory(LabelVariable)
}

// AncillaryVariables returns the group's ancillary variables.
func (g *Group) AncillaryVariables() map[string]*Variable {
	return g.byCategory(AncillaryVariable)
}

// ClimatologyBounds returns the group's climatology bounds variables.
func (g *Group) ClimatologyBounds() map[string]*Variable {
	return g.byCategory(ClimatologyBoundsVariable)
}

// FormulaTerms returns the group's variables that participate in a
// formula term.
func (g *Group) FormulaTerms() map[string]*Variable {
	out := make(map[string]*Variable)
	for name, v := range g.variables {
		if len(v.termsByRoot) > 0 {
			out[name] = v
		}
	}
	return out
}

// GlobalAttributes returns the dataset-level attributes. Only the
// Reader's top-level group carries global attributes; the map is empty
// for per-variable groups.
func (g *Group) GlobalAttributes() map[string]interface{} {
	out := make(map[string]interface{}, len(g.globalAttrs))
	for name, val := range g.globalAttrs {
		out[name] = val
	}
	return out
}

// Sections returns the group's variables partitioned by section title,
// for report rendering. Every category of every variable must have a
// registered section title; Category.String panics otherwise.
func (g *Group) Sections() map[string][]*Variable {
	out := make(map[string][]*Variable)
	for _, name := range g.Names() {
		v := g.variables[name]
		for _, c := range v.Categories() {
			out[c.String()] = append(out[c.String()], v)
		}
	}
	return out
}
