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

package models

// SerialPatterns maps a device family to the ordered list of serial-number
// prefixes that must ALL be queried to see the whole family. Upstream
// numbering is inconsistent: FortiSwitch serials begin with either "F"
// (FS...) or "S" (S108E..., S124E...), and querying only "F" misses most
// of the family. The table is explicit configuration, not filter logic,
// so that a missing pattern is reviewable instead of a silent undercount.
type SerialPatterns map[DeviceFamily][]string

// DefaultSerialPatterns returns the pattern table for the supported
// device families.
func DefaultSerialPatterns() SerialPatterns {
	return SerialPatterns{
		FamilyFortiGate:   {"F"},
		FamilyFortiSwitch: {"F", "S"},
		FamilyFortiAP:     {"F", "P"},
	}
}

// ModelPrefixes maps a device family to the product-model prefixes that
// identify it in fetched records.
func ModelPrefixes(family DeviceFamily) []string {
	switch family {
	case FamilyFortiGate:
		return []string{"FortiGate", "FortiWiFi"}
	case FamilyFortiSwitch:
		return []string{"FortiSwitch"}
	case FamilyFortiAP:
		return []string{"FortiAP"}
	default:
		return nil
	}
}
