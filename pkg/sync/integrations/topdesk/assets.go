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

package topdesk

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/carverauto/fortisync/pkg/models"
	"github.com/carverauto/fortisync/pkg/pager"
)

// Operators register devices with serials in free-text fields, so two
// fallbacks recover them: a bare serial anywhere in the text, or the
// trailing segment of a SUP.<id>.<serial> support-contract name.
var (
	serialRe         = regexp.MustCompile(`(?i)\b(FG[TVW]?[A-Z0-9]{6,})\b`)
	contractSerialRe = regexp.MustCompile(`(?i)SUP\.(?:[A-Z0-9]+\.)?([A-Z0-9]{8,})`)
)

// fetchTemplate drains one template listing, keeps the assets that look
// like the requested family, and enriches each with its linked support
// contracts.
func (i *Integration) fetchTemplate(ctx context.Context, family models.DeviceFamily, template string) ([]models.RawDeviceRecord, error) {
	assets, err := i.listAssets(ctx, template)
	if err != nil {
		return nil, fmt.Errorf("list template %q: %w", template, err)
	}

	var records []models.RawDeviceRecord

	for idx := range assets {
		a := &assets[idx]

		if !matchesFamily(a, family) {
			continue
		}

		contracts, err := i.fetchContracts(ctx, a.UnID)
		if err != nil {
			// Contract enrichment is best-effort: the device row still
			// exports, just without coverage data.
			i.Logger.Warn().Err(err).Str("asset", a.Name).Msg("Contract lookup failed")
		}

		records = append(records, assetToRecord(a, family, contracts))
	}

	return records, nil
}

// listAssets pages through one template's asset listing. The endpoint
// has no more-pages indicator; a short page is the last one.
func (i *Integration) listAssets(ctx context.Context, template string) ([]tdAsset, error) {
	return pager.All(ctx, i.PageSize, func(ctx context.Context, start, size int) ([]tdAsset, bool, error) {
		params := url.Values{}
		params.Set("templateName", template)
		params.Set("pageSize", strconv.Itoa(size))
		params.Set("pageStart", strconv.Itoa(start))
		params.Set("fields", listFields)

		var page assetPage

		if err := i.getJSON(ctx, assetsPath, acceptAssetsV2, params, &page); err != nil {
			return nil, false, err
		}

		return page.DataSet, len(page.DataSet) == size, nil
	})
}

// matchesFamily keeps assets whose type and summary identify them as the
// requested family. Summaries mention other Fortinet product lines
// (FortiWAF in particular), so a vendor match alone is not enough.
func matchesFamily(a *tdAsset, family models.DeviceFamily) bool {
	typeName := strings.ToLower(a.Type.Name)
	summary := strings.ToLower(a.Summary)
	name := strings.ToLower(a.Name)

	switch family {
	case models.FamilyFortiGate:
		if !strings.Contains(typeName, "firewall") && !strings.Contains(typeName, "fwl") {
			return false
		}

		if !strings.Contains(summary, "fortinet") || strings.Contains(summary, "fortiwaf") {
			return false
		}

		for _, marker := range []string{"fortigate", "fortiwifi", "fgt", "fg-", "fortinet vm"} {
			if strings.Contains(summary, marker) || strings.Contains(name, marker) {
				return true
			}
		}

		return false
	case models.FamilyFortiSwitch:
		if !strings.Contains(typeName, "switch") {
			return false
		}

		return strings.Contains(summary, "fortiswitch") ||
			(strings.Contains(summary, "fortinet") && !strings.Contains(summary, "fortiwaf"))
	case models.FamilyFortiAP:
		if !strings.Contains(typeName, "access point") &&
			!strings.Contains(typeName, "wireless") && !strings.Contains(typeName, "wap") {
			return false
		}

		return strings.Contains(summary, "fortiap") ||
			strings.Contains(summary, "fortinet")
	default:
		return false
	}
}

func assetToRecord(a *tdAsset, family models.DeviceFamily, contracts []models.Contract) models.RawDeviceRecord {
	branch, location := "", ""
	if len(a.Assignments.Locations) > 0 {
		first := a.Assignments.Locations[0]
		branch = first.Branch.Name

		if first.Location != nil {
			location = first.Location.Name
		}
	}

	rec := models.RawDeviceRecord{
		Source:    models.SourceTopDesk,
		Family:    family,
		Serial:    resolveSerial(a, contracts),
		Model:     modelFromAsset(a),
		Name:      a.Name,
		Contracts: contracts,
		Fields: map[string]string{
			"summary":          a.Summary,
			"status":           a.Status,
			"archived":         strconv.FormatBool(a.Archived),
			"host-name":        a.HostName,
			"ip-address":       a.IPAddress,
			"software-versie":  a.Firmware,
			"vendor":           a.Vendor,
			"branch":           branch,
			"location":         location,
			"creationDate":     a.CreationDate,
			"modificationDate": a.ModificationDate,
		},
	}

	return rec
}

// resolveSerial prefers the dedicated field, then serials embedded in
// contract names, then the summary and asset name.
func resolveSerial(a *tdAsset, contracts []models.Contract) string {
	if a.SerialNumber != "" {
		return a.SerialNumber
	}

	for _, c := range contracts {
		if s := extractSerial(c.Number); s != "" {
			return s
		}
	}

	if s := extractSerial(a.Summary); s != "" {
		return s
	}

	return extractSerial(a.Name)
}

func extractSerial(text string) string {
	if m := serialRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}

	if m := contractSerialRe.FindStringSubmatch(text); m != nil {
		return strings.ToUpper(m[1])
	}

	return ""
}

// modelFromAsset falls back to the summary when the model field is
// empty: summaries read like "Fortinet FortiGate 60F ...".
func modelFromAsset(a *tdAsset) string {
	if a.Model != "" {
		return a.Model
	}

	if !strings.Contains(strings.ToLower(a.Summary), "fortinet") {
		return ""
	}

	parts := strings.Fields(a.Summary)
	for idx, part := range parts {
		lower := strings.ToLower(part)
		if strings.Contains(lower, "fortigate") || strings.Contains(lower, "fortiwifi") ||
			strings.Contains(lower, "fortiswitch") || strings.Contains(lower, "fortiap") {
			if idx+1 < len(parts) {
				return part + " " + parts[idx+1]
			}

			return part
		}
	}

	return ""
}
