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
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// pairPattern matches the "key: name" pairs used by the
// "cell_measures" and "formula_terms" attributes.
var pairPattern = regexp.MustCompile(`(\w+)\s*:\s*(\w+)`)

// translate is the first pass: it wraps every store variable and
// assigns its categories. Coordinate variables are identified before
// anything else so that reference scanning can exclude them; a
// dimension coordinate named by a "coordinates" attribute must not be
// reclassified as an auxiliary coordinate.
func (r *Reader) translate() error {
	names := append([]string(nil), r.store.Variables()...)
	sort.Strings(names)

	r.group = newGroup()
	for _, name := range names {
		r.group.add(newVariable(r, name))
	}

	for _, name := range names {
		v := r.group.variables[name]
		if !v.str && len(v.dimensions) == 1 && v.dimensions[0] == name {
			v.addCategory(CoordinateVariable)
		}
	}

	for _, name := range names {
		if err := r.classifyReferences(r.group.variables[name], true); err != nil {
			return err
		}
	}

	if err := r.classifyFormulaTerms(names); err != nil {
		return err
	}

	// Whatever nothing refers to, and is not a coordinate, holds the
	// data payloads.
	for _, name := range names {
		v := r.group.variables[name]
		if v.categories == 0 {
			v.addCategory(DataVariable)
		}
	}

	return r.readGlobalAttributes()
}

// classifyReferences assigns the categories encoded by v's reference
// attributes to the variables they name.
func (r *Reader) classifyReferences(v *Variable, warn bool) error {
	targets, err := r.refTargets(v, "ancillary_variables", true, warn)
	if err != nil {
		return err
	}
	for _, t := range targets {
		t.addCategory(AncillaryVariable)
	}

	// "coordinates" names both auxiliary coordinates and labels; the
	// target's type decides which.
	targets, err = r.refTargets(v, "coordinates", true, warn)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if t.str {
			t.addCategory(LabelVariable)
		} else {
			t.addCategory(AuxiliaryCoordinateVariable)
		}
	}

	targets, err = r.refTargets(v, "bounds", true, warn)
	if err != nil {
		return err
	}
	for _, t := range targets {
		t.addCategory(BoundsVariable)
	}

	targets, err = r.refTargets(v, "climatology", true, warn)
	if err != nil {
		return err
	}
	for _, t := range targets {
		t.addCategory(ClimatologyBoundsVariable)
	}

	// Grid mappings are exempt from the coordinate exclusion: a grid
	// mapping reference marks its target whatever else it is.
	targets, err = r.refTargets(v, "grid_mapping", false, warn)
	if err != nil {
		return err
	}
	for _, t := range targets {
		t.addCategory(GridMappingVariable)
	}

	pairs, err := r.refPairs(v, "cell_measures", true, warn)
	if err != nil {
		return err
	}
	for _, p := range pairs {
		p.target.addCategory(CellMeasureVariable)
		p.target.measure = p.key
	}
	return nil
}

// classifyFormulaTerms records each formula-term participant against
// its root variable and promotes otherwise-unclassified participants
// to auxiliary coordinates. Terms owned by a bounds variable are
// ignored: the bounds machinery reconstructs those from the bounded
// variable.
func (r *Reader) classifyFormulaTerms(names []string) error {
	for _, name := range names {
		root := r.group.variables[name]
		pairs, err := r.refPairs(root, "formula_terms", false, true)
		if err != nil {
			return err
		}
		if root.Is(BoundsVariable) {
			continue
		}
		for _, p := range pairs {
			if p.target.categories == 0 {
				p.target.addCategory(AuxiliaryCoordinateVariable)
			}
			p.target.addFormulaTerm(root.name, p.key)
		}
	}
	return nil
}

func (r *Reader) readGlobalAttributes() error {
	attrs := make(map[string]interface{})
	for _, name := range r.store.GlobalAttributeNames() {
		val, err := r.store.GlobalAttribute(name)
		if err != nil {
			return fmt.Errorf("cf: reading global attribute %q: %v", name, err)
		}
		attrs[name] = val
	}
	r.group.globalAttrs = attrs
	return nil
}

// refTargets resolves the whitespace-separated variable names held by
// the named attribute of v. Names that do not resolve are dropped;
// when warn is set, each drop is logged. When skipCoords is set, names
// classified as coordinate variables are skipped.
func (r *Reader) refTargets(v *Variable, attr string, skipCoords, warn bool) ([]*Variable, error) {
	s, err := r.refAttr(v, attr, warn)
	if err != nil || s == "" {
		return nil, err
	}
	var out []*Variable
	for _, name := range strings.Fields(s) {
		if t := r.resolveRef(v, attr, name, skipCoords, warn); t != nil {
			out = append(out, t)
		}
	}
	return out, nil
}

// refPair is one "key: name" element of a paired reference attribute,
// with the name resolved.
type refPair struct {
	key    string
	target *Variable
}

// refPairs resolves the "key: name" pairs held by the named attribute
// of v, with the same dropping rules as refTargets.
func (r *Reader) refPairs(v *Variable, attr string, skipCoords, warn bool) ([]refPair, error) {
	s, err := r.refAttr(v, attr, warn)
	if err != nil || s == "" {
		return nil, err
	}
	var out []refPair
	for _, m := range pairPattern.FindAllStringSubmatch(s, -1) {
		if t := r.resolveRef(v, attr, m[2], skipCoords, warn); t != nil {
			out = append(out, refPair{key: m[1], target: t})
		}
	}
	return out, nil
}

// refAttr fetches a reference attribute as a string. Reference
// attributes holding non-character data cannot name variables and are
// treated as absent.
func (r *Reader) refAttr(v *Variable, attr string, warn bool) (string, error) {
	if !v.HasAttr(attr) {
		return "", nil
	}
	val, err := v.Attr(attr)
	if err != nil {
		return "", err
	}
	s, ok := val.(string)
	if !ok {
		if warn {
			logrus.WithFields(logrus.Fields{
				"variable":  v.name,
				"attribute": attr,
			}).Warn("cf reference attribute does not hold text")
		}
		return "", nil
	}
	return s, nil
}

func (r *Reader) resolveRef(v *Variable, attr, name string, skipCoords, warn bool) *Variable {
	target, ok := r.group.variables[name]
	if !ok {
		if warn {
			logrus.WithFields(logrus.Fields{
				"variable":  v.name,
				"attribute": attr,
				"reference": name,
			}).Warn("cf reference to missing variable")
		}
		return nil
	}
	if skipCoords && target.Is(CoordinateVariable) {
		return nil
	}
	return target
}
