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
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/ctessum/requestcache"
)

// Reader resolves the CF relationships of a dataset. Construction runs
// three ordered passes: classification of every variable into semantic
// categories, resolution of the name-valued cross-references between
// them, and validation of the label variables. The result is immutable
// afterwards except for the per-variable attribute touch state, so a
// Reader is safe to share between concurrent readers that do not
// consume attributes.
type Reader struct {
	store Store
	group *Group

	// CacheSize specifies the number of variable payloads to be held
	// in the memory cache used by Values. The default is 100.
	// CacheSize can only be changed before the first Values call.
	CacheSize int

	valueCache *requestcache.Cache
	valueInit  sync.Once
}

// NewReader classifies the variables of store and resolves the
// relationships between them. Warnings about references that name
// variables the dataset does not contain, and about malformed
// reference attributes, go to the logrus standard logger. The
// attribute touch state of every variable is reset before returning,
// so the used/unused diagnostics reflect only consumption by the
// caller.
func NewReader(store Store) (*Reader, error) {
	r := &Reader{
		store:     store,
		CacheSize: 100,
	}
	if err := r.translate(); err != nil {
		return nil, err
	}
	if err := r.buildGroups(); err != nil {
		return nil, err
	}
	if err := r.validateLabels(); err != nil {
		return nil, err
	}
	for _, v := range r.group.variables {
		v.AttrsReset()
	}
	return r, nil
}

// Group returns the dataset's variables, classified and resolved.
func (r *Reader) Group() *Group { return r.group }

// Values returns the entire contents of the named variable, reading
// through an in-memory cache with the size specified by the CacheSize
// attribute of the receiver. Concurrent requests for the same variable
// are deduplicated. Callers desiring to change the returned slice
// should copy it first to avoid editing the cached payload. A
// NotFoundError is returned for names the dataset does not contain.
func (r *Reader) Values(name string) (interface{}, error) {
	if _, err := r.group.Variable(name); err != nil {
		return nil, err
	}
	r.valueInit.Do(func() {
		r.valueCache = requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
			return r.store.Values(request.(string))
		}, runtime.GOMAXPROCS(-1),
			requestcache.Deduplicate(), requestcache.Memory(r.CacheSize))
	})
	req := r.valueCache.NewRequest(context.TODO(), name, name)
	result, err := req.Result()
	if err != nil {
		return nil, fmt.Errorf("cf: reading variable %q: %v", name, err)
	}
	return result, nil
}
