/*
Copyright © 2019 the SoilWat authors.
This file is part of SoilWat.

SoilWat is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

SoilWat is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with SoilWat.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package hash creates identifiers for simulation configurations, so that
// runs of the same soil and management can be recognised.
package hash

import (
	"fmt"
	"hash/fnv"

	"github.com/davecgh/go-spew/spew"
)

// Key returns a hexadecimal key identifying the contents of object.
// Objects that implement fmt.Stringer are identified by their string.
// Map keys are sorted before hashing, so equal maps give equal keys.
func Key(object interface{}) string {
	if s, ok := object.(fmt.Stringer); ok {
		return s.String()
	}
	h := fnv.New128a()
	dumper.Fprintf(h, "%#v", object)
	return fmt.Sprintf("%x", h.Sum(nil))
}

var dumper = spew.ConfigState{
	Indent:                  " ",
	SortKeys:                true,
	DisableMethods:          true,
	SpewKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// Short returns the first eight characters of Key(object), for use in
// file names and log fields.
func Short(object interface{}) string {
	k := Key(object)
	if len(k) > 8 {
		return k[:8]
	}
	return k
}
