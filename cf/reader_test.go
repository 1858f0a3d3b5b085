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
	"io/ioutil"
	"os"
	"reflect"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

func TestValues(t *testing.T) {
	store := rotatedPoleStore()
	r, err := NewReader(store)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{-20.25, -20.03, -19.81}
	a, err := r.Values("rlat")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, want) {
		t.Errorf("want %v but have %v", want, a)
	}
	b, err := r.Values("rlat")
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(b, want) {
		t.Errorf("want %v but have %v", want, b)
	}
	if n := store.valueCalls["rlat"]; n != 1 {
		t.Errorf("want 1 store read but have %d", n)
	}
}

func TestValuesNotFound(t *testing.T) {
	r, err := NewReader(rotatedPoleStore())
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Values("ghost")
	if err == nil {
		t.Fatal("want an error for a missing variable")
	}
	if _, ok := err.(NotFoundError); !ok {
		t.Fatalf("want a NotFoundError but have %T", err)
	}
}

// failingStore delegates everything but payload reads.
type failingStore struct {
	*testStore
}

func (s *failingStore) Values(name string) (interface{}, error) {
	return nil, fmt.Errorf("disk on fire")
}

func TestValuesReadError(t *testing.T) {
	r, err := NewReader(&failingStore{rotatedPoleStore()})
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Values("rlat")
	want := `cf: reading variable "rlat": disk on fire`
	if err == nil || err.Error() != want {
		t.Errorf("want error %q but have %v", want, err)
	}
}

func TestValuesConcurrent(t *testing.T) {
	store := rotatedPoleStore()
	r, err := NewReader(store)
	if err != nil {
		t.Fatal(err)
	}
	const readers = 10
	errs := make(chan error, readers)
	for i := 0; i < readers; i++ {
		go func() {
			_, err := r.Values("rlat")
			errs <- err
		}()
	}
	for i := 0; i < readers; i++ {
		if err := <-errs; err != nil {
			t.Fatal(err)
		}
	}
	if n := store.valueCalls["rlat"]; n != 1 {
		t.Errorf("want 1 store read under concurrency but have %d", n)
	}
}

func TestWarnings(t *testing.T) {
	logrus.SetOutput(ioutil.Discard)
	defer logrus.SetOutput(os.Stderr)
	hook := test.NewGlobal()
	defer hook.Reset()

	store := newTestStore(map[string]*testVar{
		"pr": {
			dims: []string{"y", "x"}, shape: []int{3, 4},
			attrs: map[string]interface{}{
				"coordinates": "ghost",
				"bounds":      []float64{1},
			},
		},
	}, nil)
	if _, err := NewReader(store); err != nil {
		t.Fatal(err)
	}

	var missing, nonText *logrus.Entry
	for _, e := range hook.Entries {
		switch e.Message {
		case "cf reference to missing variable":
			missing = e
		case "cf reference attribute does not hold text":
			nonText = e
		}
	}
	if missing == nil {
		t.Fatal("want a warning about the missing reference")
	}
	if missing.Data["variable"] != "pr" || missing.Data["attribute"] != "coordinates" || missing.Data["reference"] != "ghost" {
		t.Errorf("unexpected warning fields %v", missing.Data)
	}
	if nonText == nil {
		t.Fatal("want a warning about the non-text reference attribute")
	}
	if nonText.Data["variable"] != "pr" || nonText.Data["attribute"] != "bounds" {
		t.Errorf("unexpected warning fields %v", nonText.Data)
	}
}
