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

// Package irisutil holds the command-line interface to Iris and its
// configuration plumbing.
package irisutil

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/geom/proj"

	"github.com/stephenworsley/iris/cf"
	"github.com/stephenworsley/iris/netcdf"
)

// openReader opens the dataset at path and resolves its CF metadata.
func openReader(path string, cacheSize int) (*cf.Reader, *netcdf.Store, error) {
	store, err := netcdf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	r, err := cf.NewReader(store)
	if err != nil {
		store.Close()
		return nil, nil, err
	}
	r.CacheSize = cacheSize
	return r, store, nil
}

// reportSections gives the order of the describe report, pairing each
// category with its section header.
var reportSections = []struct {
	category cf.Category
	header   string
}{
	{cf.DataVariable, "data variables"},
	{cf.CoordinateVariable, "coordinates"},
	{cf.AuxiliaryCoordinateVariable, "auxiliary coordinates"},
	{cf.BoundsVariable, "bounds"},
	{cf.ClimatologyBoundsVariable, "climatology bounds"},
	{cf.CellMeasureVariable, "cell measures"},
	{cf.GridMappingVariable, "grid mappings"},
	{cf.LabelVariable, "labels"},
	{cf.AncillaryVariable, "ancillary variables"},
}

// Describe writes a per-category report of the variables of the
// dataset at path to w. If filter is non-empty, it is evaluated as an
// expression against each variable (see the describe command
// documentation for the available parameters) and only matching
// variables are reported. If ranks is non-empty, only variables with
// the given numbers of dimensions are reported.
func Describe(w io.Writer, path, filter string, ranks []int, cacheSize int) error {
	r, store, err := openReader(path, cacheSize)
	if err != nil {
		return err
	}
	defer store.Close()

	keep, err := filterFunc(filter)
	if err != nil {
		return err
	}
	g := r.Group()

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, section := range reportSections {
		var rows []string
		for _, name := range g.Names() {
			v, err := g.Variable(name)
			if err != nil {
				return err
			}
			if !v.Is(section.category) || !rankIn(v.NDim(), ranks) {
				continue
			}
			ok, err := keep(v)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			rows = append(rows, fmt.Sprintf("\t%s\t%s\t%s\t%d\n",
				v.Name(), shapeString(v.Shape()), dimString(v.Dimensions()), v.Group().Len()))
		}
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s:\n", section.header)
		for _, row := range rows {
			fmt.Fprint(tw, row)
		}
	}
	globals := g.GlobalAttributes()
	if len(globals) > 0 {
		fmt.Fprintf(tw, "global attributes:\n")
		for _, name := range sortedKeys(globals) {
			fmt.Fprintf(tw, "\t%s\t= %#v\n", name, globals[name])
		}
	}
	return tw.Flush()
}

// Attrs writes the attributes of the named variables of the dataset at
// path to w, or of every variable if names is empty.
func Attrs(w io.Writer, path string, names []string, cacheSize int) error {
	r, store, err := openReader(path, cacheSize)
	if err != nil {
		return err
	}
	defer store.Close()

	g := r.Group()
	if len(names) == 0 {
		names = g.Names()
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, name := range names {
		v, err := g.Variable(name)
		if err != nil {
			return err
		}
		attrs, err := v.Attrs()
		if err != nil {
			return err
		}
		for _, a := range attrs {
			fmt.Fprintf(tw, "%s:%s\t= %#v\n", v.Name(), a.Name, a.Value)
		}
	}
	return tw.Flush()
}

// GlobalAttrs writes the global attributes of the dataset at path to w.
func GlobalAttrs(w io.Writer, path string, cacheSize int) error {
	r, store, err := openReader(path, cacheSize)
	if err != nil {
		return err
	}
	defer store.Close()

	globals := r.Group().GlobalAttributes()
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, name := range sortedKeys(globals) {
		fmt.Fprintf(tw, ":%s\t= %#v\n", name, globals[name])
	}
	return tw.Flush()
}

// Labels writes a report of the label variables grouped with each data
// variable of the dataset at path to w. If dataVar is non-empty, only
// that data variable is reported.
func Labels(w io.Writer, path, dataVar string, cacheSize int) error {
	r, store, err := openReader(path, cacheSize)
	if err != nil {
		return err
	}
	defer store.Close()

	g := r.Group()
	var dataVars []*cf.Variable
	if dataVar != "" {
		v, err := g.Variable(dataVar)
		if err != nil {
			return err
		}
		dataVars = append(dataVars, v)
	} else {
		data := g.DataVariables()
		for _, name := range sortedVarKeys(data) {
			dataVars = append(dataVars, data[name])
		}
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, v := range dataVars {
		labels := v.Group().Labels()
		for _, name := range sortedVarKeys(labels) {
			label := labels[name]
			dims, err := label.LabelDimensions(v)
			if err != nil {
				return err
			}
			values, err := label.LabelData(v)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
				v.Name(), label.Name(), dimString(dims), strings.Join(values, ", "))
		}
	}
	return tw.Flush()
}

// Proj writes the PROJ.4 translation of the dataset's grid mapping
// variables to w. If mapping is non-empty, only that variable is
// translated. If check is true, each translation is additionally
// parsed, and an unusable projection string is an error.
func Proj(w io.Writer, path, mapping string, check bool, cacheSize int) error {
	r, store, err := openReader(path, cacheSize)
	if err != nil {
		return err
	}
	defer store.Close()

	g := r.Group()
	var mappings []*cf.Variable
	if mapping != "" {
		v, err := g.Variable(mapping)
		if err != nil {
			return err
		}
		mappings = append(mappings, v)
	} else {
		gm := g.GridMappings()
		for _, name := range sortedVarKeys(gm) {
			mappings = append(mappings, gm[name])
		}
	}

	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	for _, v := range mappings {
		s, err := cf.ProjString(v)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", v.Name(), s)
		if check {
			if _, err := proj.Parse(s); err != nil {
				return fmt.Errorf("iris: checking the projection of %q: %v", v.Name(), err)
			}
		}
	}
	return tw.Flush()
}

// filterFunc compiles filter into a per-variable predicate. An empty
// filter matches every variable.
func filterFunc(filter string) (func(*cf.Variable) (bool, error), error) {
	if filter == "" {
		return func(*cf.Variable) (bool, error) { return true, nil }, nil
	}
	// cur is the variable currently being evaluated; the expression
	// functions read it because govaluate fixes functions at parse time.
	var cur *cf.Variable
	funcs := map[string]govaluate.ExpressionFunction{
		"has_attr": func(arg ...interface{}) (interface{}, error) {
			if len(arg) != 1 {
				return nil, fmt.Errorf("iris: got %d arguments for function 'has_attr', but needs 1", len(arg))
			}
			name, ok := arg[0].(string)
			if !ok {
				return nil, fmt.Errorf("iris: the argument to 'has_attr' must be text")
			}
			return cur.HasAttr(name), nil
		},
	}
	expression, err := govaluate.NewEvaluableExpressionWithFunctions(filter, funcs)
	if err != nil {
		return nil, fmt.Errorf("iris: parsing filter expression: %v", err)
	}
	return func(v *cf.Variable) (bool, error) {
		cur = v
		result, err := expression.Evaluate(filterParams(v))
		if err != nil {
			return false, fmt.Errorf("iris: evaluating filter expression: %v", err)
		}
		b, ok := result.(bool)
		if !ok {
			return false, fmt.Errorf("iris: the filter expression must yield true or false, not %#v", result)
		}
		return b, nil
	}, nil
}

// filterParams builds the expression parameters for a variable.
func filterParams(v *cf.Variable) map[string]interface{} {
	size := 1
	for _, l := range v.Shape() {
		size *= l
	}
	return map[string]interface{}{
		"name":         v.Name(),
		"ndim":         float64(v.NDim()),
		"size":         float64(size),
		"data":         v.Is(cf.DataVariable),
		"coordinate":   v.Is(cf.CoordinateVariable),
		"auxiliary":    v.Is(cf.AuxiliaryCoordinateVariable),
		"bounds":       v.Is(cf.BoundsVariable),
		"climatology":  v.Is(cf.ClimatologyBoundsVariable),
		"cell_measure": v.Is(cf.CellMeasureVariable),
		"grid_mapping": v.Is(cf.GridMappingVariable),
		"label":        v.Is(cf.LabelVariable),
		"ancillary":    v.Is(cf.AncillaryVariable),
	}
}

func rankIn(ndim int, ranks []int) bool {
	if len(ranks) == 0 {
		return true
	}
	for _, r := range ranks {
		if ndim == r {
			return true
		}
	}
	return false
}

func shapeString(shape []int) string {
	s := make([]string, len(shape))
	for i, l := range shape {
		s[i] = fmt.Sprintf("%d", l)
	}
	return "(" + strings.Join(s, ", ") + ")"
}

func dimString(dims []string) string {
	return "(" + strings.Join(dims, ", ") + ")"
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedVarKeys(m map[string]*cf.Variable) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
