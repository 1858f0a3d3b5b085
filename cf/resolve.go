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

// buildGroups is the second pass: with the name index complete, every
// resolved reference becomes a mutual edge between the referencing and
// referenced variable, so each variable's group is its one-hop
// neighborhood rather than a transitive closure. Data variables
// additionally pick up the coordinate variables named by their
// dimensions. References that failed to resolve were already logged by
// the first pass and are dropped silently here.
func (r *Reader) buildGroups() error {
	for _, name := range r.group.Names() {
		v := r.group.variables[name]
		if err := r.linkReferences(v); err != nil {
			return err
		}
		if !v.Is(DataVariable) {
			continue
		}
		for _, dim := range v.dimensions {
			if c, ok := r.group.variables[dim]; ok && c.Is(CoordinateVariable) {
				v.group.add(c)
			}
		}
	}
	return nil
}

// linkReferences adds the mutual edges for every reference attribute
// of v.
func (r *Reader) linkReferences(v *Variable) error {
	refs := []struct {
		attr       string
		skipCoords bool
	}{
		{"ancillary_variables", true},
		{"coordinates", true},
		{"bounds", true},
		{"climatology", true},
		{"grid_mapping", false},
	}
	for _, ref := range refs {
		targets, err := r.refTargets(v, ref.attr, ref.skipCoords, false)
		if err != nil {
			return err
		}
		for _, t := range targets {
			link(v, t)
		}
	}

	pairs, err := r.refPairs(v, "cell_measures", true, false)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		link(v, p.target)
	}

	// Formula terms owned by a bounds variable stay out of the graph,
	// matching their exclusion from classification.
	if !v.Is(BoundsVariable) {
		pairs, err = r.refPairs(v, "formula_terms", false, false)
		if err != nil {
			return err
		}
		for _, p := range pairs {
			link(v, p.target)
		}
	}
	return nil
}

func link(a, b *Variable) {
	a.group.add(b)
	b.group.add(a)
}
