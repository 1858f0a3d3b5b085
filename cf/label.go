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

// labelCutset holds the padding characters trimmed from the edges of
// stored label strings.
const labelCutset = " \t\n\r\v\f\x00"

// validateLabels is the third pass: a label variable stores one string
// per index of its label dimension plus one dimension for the string
// characters, so anything other than one or two dimensions can never
// be aligned with a data variable and fails construction.
func (r *Reader) validateLabels() error {
	for _, name := range r.group.Names() {
		v := r.group.variables[name]
		if v.Is(LabelVariable) && (v.NDim() < 1 || v.NDim() > 2) {
			return fmt.Errorf("cf: label variable %q has %d dimensions; want 1 or 2", v.name, v.NDim())
		}
	}
	return nil
}

// LabelDimensions returns the dimensions of dataVar that the label
// variable v spans, in dataVar's dimension order. The label's own
// string-length dimension never appears in the result. A label that
// shares no dimension with dataVar is scalar with respect to it and
// yields an empty result.
func (v *Variable) LabelDimensions(dataVar *Variable) ([]string, error) {
	if err := v.checkLabelArgs(dataVar); err != nil {
		return nil, err
	}
	var out []string
	for _, dim := range dataVar.dimensions {
		for _, ldim := range v.dimensions {
			if dim == ldim {
				out = append(out, dim)
				break
			}
		}
	}
	return out, nil
}

// LabelData returns the label strings of v aligned to the dimension it
// shares with dataVar: element i is the label for index i along that
// dimension, whichever way round the label variable stores its
// characters. A one-dimensional label holds a single string and yields
// a one-element result. The raw payload read is cached by the Reader;
// the alignment is recomputed for every call because it depends on
// dataVar.
func (v *Variable) LabelData(dataVar *Variable) ([]string, error) {
	if err := v.checkLabelArgs(dataVar); err != nil {
		return nil, err
	}
	payload, err := v.owner.Values(v.name)
	if err != nil {
		return nil, err
	}
	chars, ok := payload.([]byte)
	if !ok {
		return nil, fmt.Errorf("cf: label variable %q did not read as character data", v.name)
	}

	if v.NDim() == 1 {
		return []string{strings.Trim(string(chars), labelCutset)}, nil
	}

	// Two dimensions: the one dataVar does not share holds the string
	// characters.
	strDim := -1
	for i, dim := range v.dimensions {
		shared := false
		for _, ddim := range dataVar.dimensions {
			if dim == ddim {
				shared = true
				break
			}
		}
		if !shared {
			if strDim != -1 {
				return nil, fmt.Errorf("cf: label variable %q shares no dimension with variable %q", v.name, dataVar.name)
			}
			strDim = i
		}
	}
	if strDim == -1 {
		return nil, fmt.Errorf("cf: cannot determine the string dimension of label variable %q relative to variable %q", v.name, dataVar.name)
	}

	rows, cols := v.shape[0], v.shape[1]
	if len(chars) != rows*cols {
		return nil, fmt.Errorf("cf: label variable %q holds %d characters; want %d", v.name, len(chars), rows*cols)
	}
	var labels []string
	if strDim == 1 {
		// Row-major: each label's characters are contiguous.
		for i := 0; i < rows; i++ {
			labels = append(labels, strings.Trim(string(chars[i*cols:(i+1)*cols]), labelCutset))
		}
	} else {
		// The string dimension comes first, so each label is a column.
		for j := 0; j < cols; j++ {
			b := make([]byte, rows)
			for i := 0; i < rows; i++ {
				b[i] = chars[i*cols+j]
			}
			labels = append(labels, strings.Trim(string(b), labelCutset))
		}
	}
	return labels, nil
}

func (v *Variable) checkLabelArgs(dataVar *Variable) error {
	if !v.Is(LabelVariable) {
		return fmt.Errorf("cf: variable %q is not a label variable", v.name)
	}
	if dataVar == nil {
		return fmt.Errorf("cf: label variable %q queried against a nil data variable", v.name)
	}
	if !dataVar.Is(DataVariable) {
		return fmt.Errorf("cf: variable %q is not a data variable", dataVar.name)
	}
	return nil
}
