/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package unify

import "github.com/carverauto/fortisync/pkg/models"

// SubItem is the expandable sub-record a pair was built from. At most one
// field is set; all nil means the parent device had nothing to expand.
type SubItem struct {
	Contract    *models.Contract
	Entitlement *models.Entitlement
	Member      *models.ClusterMember
}

// IsZero reports whether the pair carries no sub-item.
func (s SubItem) IsZero() bool {
	return s.Contract == nil && s.Entitlement == nil && s.Member == nil
}

// Pair couples a device record with one of its expandable sub-items. The
// record pointer keeps device-level fields reachable from every expanded
// row.
type Pair struct {
	Record *models.RawDeviceRecord
	Sub    SubItem
}

// Flatten expands one device record into pairs: one per contract, one per
// entitlement, one per cluster member, in source order. A record with no
// sub-items in any category yields exactly one pair with an empty
// sub-item, so the device itself is never dropped.
func Flatten(rec *models.RawDeviceRecord) []Pair {
	n := len(rec.Contracts) + len(rec.Entitlements) + len(rec.Members)
	if n == 0 {
		return []Pair{{Record: rec}}
	}

	pairs := make([]Pair, 0, n)

	for i := range rec.Contracts {
		pairs = append(pairs, Pair{Record: rec, Sub: SubItem{Contract: &rec.Contracts[i]}})
	}

	for i := range rec.Entitlements {
		pairs = append(pairs, Pair{Record: rec, Sub: SubItem{Entitlement: &rec.Entitlements[i]}})
	}

	for i := range rec.Members {
		pairs = append(pairs, Pair{Record: rec, Sub: SubItem{Member: &rec.Members[i]}})
	}

	return pairs
}
