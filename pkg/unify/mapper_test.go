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

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/fortisync/pkg/models"
)

var testNow = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func TestMapRowSchemaIsIdenticalAcrossSources(t *testing.T) {
	// Every source's rows carry exactly the unified columns, no more and
	// no fewer, so outputs stay diffable across sources.
	for _, source := range []models.SourceTag{
		models.SourceFortiCloud,
		models.SourceFortiManager,
		models.SourceTopDesk,
	} {
		t.Run(string(source), func(t *testing.T) {
			rec := &models.RawDeviceRecord{
				Source: source,
				Family: models.FamilyFortiGate,
				Serial: "FGT60F0000000001",
			}

			row, err := MapRow(Pair{Record: rec}, testNow)
			require.NoError(t, err)
			require.Len(t, row, len(Columns()))

			for _, col := range Columns() {
				_, ok := row[col]
				assert.True(t, ok, "missing column %q", col)
			}
		})
	}
}

func TestMapRowUnknownSource(t *testing.T) {
	rec := &models.RawDeviceRecord{Source: "carrier-pigeon"}

	_, err := MapRow(Pair{Record: rec}, testNow)
	assert.ErrorIs(t, err, errUnknownSource)
}

func TestMapRowDeviceWithoutContractsUsesEmptyMarkers(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceFortiCloud,
		Family: models.FamilyFortiGate,
		Serial: "FGT60F0000000001",
		Model:  "FortiGate-60F",
		Name:   "branch-fw",
	}

	pairs := Flatten(rec)
	require.Len(t, pairs, 1)

	row, err := MapRow(pairs[0], testNow)
	require.NoError(t, err)

	assert.Equal(t, "FGT60F0000000001", row["Serial Number"])
	assert.Equal(t, "branch-fw", row["Device Name"])
	assert.Equal(t, "Firewall", row["Asset Type"])
	assert.Equal(t, "FortiCloud", row["Source System"])

	// Absent coverage maps to the explicit empty marker, never to a
	// fabricated placeholder.
	assert.Equal(t, "", row["Contract Number"])
	assert.Equal(t, "", row["Contract Expiration Date"])
	assert.Equal(t, "", row["Contract Status"])
	assert.Equal(t, "", row["Entitlement Level"])
}

func TestMapRowComputesContractStatus(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceFortiCloud,
		Family: models.FamilyFortiGate,
		Serial: "FGT60F0000000001",
		Contracts: []models.Contract{
			// Upstream says Expired but the end date is in the future; the
			// computed status wins.
			{Number: "C-ACTIVE", EndDate: "2026-01-01", Status: "Expired"},
			{Number: "C-EXPIRED", EndDate: "2024-01-01", Status: "Active"},
			{Number: "C-UNDATED"},
		},
	}

	rows := mapAll(t, rec)
	require.Len(t, rows, 3)

	assert.Equal(t, StatusActive, rows[0]["Contract Status"])
	assert.Equal(t, StatusExpired, rows[1]["Contract Status"])
	assert.Equal(t, StatusUnknown, rows[2]["Contract Status"])
}

func TestMapRowEntitlementRowsComputeStatusFromEntitlementEnd(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceFortiCloud,
		Family: models.FamilyFortiGate,
		Serial: "FGT60F0000000001",
		Entitlements: []models.Entitlement{
			{Level: "Premium", Type: "Support", StartDate: "2024-01-01", EndDate: "2026-06-30"},
		},
	}

	rows := mapAll(t, rec)
	require.Len(t, rows, 1)

	assert.Equal(t, "Premium", rows[0]["Entitlement Level"])
	assert.Equal(t, "2026-06-30", rows[0]["Entitlement End Date"])
	assert.Equal(t, StatusActive, rows[0]["Contract Status"])
	assert.Equal(t, "", rows[0]["Contract Number"])
}

func TestMapRowClusterMemberRowsCarryMemberIdentity(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceFortiManager,
		Family: models.FamilyFortiGate,
		Serial: "FGT100F000000001",
		Name:   "dc-cluster",
		Model:  "FortiGate-100F",
		Fields: map[string]string{
			"ha_mode":       "Active-Passive",
			"ha_group_name": "dc-ha",
		},
		Members: []models.ClusterMember{
			{Serial: "FGT100F000000001", Name: "dc-fw-1", Role: "Primary", Status: "Online", Priority: "200"},
			{Serial: "FGT100F000000002", Name: "dc-fw-2", Role: "Secondary", Status: "Online", Priority: "100"},
		},
	}

	rows := mapAll(t, rec)
	require.Len(t, rows, 2)

	assert.Equal(t, "FGT100F000000001", rows[0]["Serial Number"])
	assert.Equal(t, "dc-fw-1", rows[0]["Device Name"])
	assert.Equal(t, "Primary", rows[0]["HA Role"])

	assert.Equal(t, "FGT100F000000002", rows[1]["Serial Number"])
	assert.Equal(t, "dc-fw-2", rows[1]["Device Name"])
	assert.Equal(t, "Secondary", rows[1]["HA Role"])
	assert.Equal(t, "100", rows[1]["HA Priority"])

	for _, row := range rows {
		// Cluster-level fields repeat on every member row.
		assert.Equal(t, "FortiGate-100F", row["Model"])
		assert.Equal(t, "Active-Passive", row["HA Mode"])
		assert.Equal(t, "dc-ha", row["HA Cluster Name"])
	}
}

func TestMapRowFortiCloudFields(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceFortiCloud,
		Family: models.FamilyFortiSwitch,
		Serial: "S124EN0000000001",
		Model:  "FortiSwitch-124E",
		Fields: map[string]string{
			"description":      "rack 3 top",
			"status":           "Registered",
			"registrationDate": "2023-05-10T08:00:00",
			"isDecommissioned": "false",
			"folderPath":       "/Org/Branch",
			"folderId":         "42",
		},
		Account: &models.AccountMeta{
			ID:      1001,
			Company: "Acme BV",
			Email:   "ops@acme.example",
			OUID:    7,
			OUName:  "Benelux",
		},
	}

	rows := mapAll(t, rec)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "Switch", row["Asset Type"])
	assert.Equal(t, "rack 3 top", row["Device Name"], "description backs an empty device name")
	assert.Equal(t, "Acme BV", row["Company"])
	assert.Equal(t, "Benelux", row["Organizational Unit"])
	assert.Equal(t, "1001", row["Account ID"])
	assert.Equal(t, "7", row["Account OU ID"])
	assert.Equal(t, "/Org/Branch", row["Folder Path"])
	assert.Equal(t, "2023-05-10", row["Registration Date"])
	assert.Equal(t, "No", row["Is Decommissioned"])
}

func TestMapRowTopDeskFields(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceTopDesk,
		Family: models.FamilyFortiGate,
		Serial: "FGT70GTK25008471",
		Model:  "FortiGate 70G",
		Name:   "FW-AMS-01",
		Fields: map[string]string{
			"summary":          "Fortinet FortiGate 70G branch firewall",
			"status":           "OPERATIONAL",
			"archived":         "false",
			"host-name":        "fw-ams-01.example",
			"ip-address":       "10.4.0.1",
			"software-versie":  "7.4.5",
			"branch":           "Amsterdam",
			"location":         "Serverruimte 1",
			"creationDate":     "2024-11-19T23:00:00.000",
			"modificationDate": "2025-02-01T09:30:00.000",
		},
		Contracts: []models.Contract{
			{
				Number:    "SUP.FGT70GTK25008471",
				Type:      "Support contract",
				Summary:   "FortiCare Premium",
				StartDate: "2024-11-19T23:00:00.000",
				EndDate:   "2027-11-19T23:00:00.000",
			},
		},
	}

	rows := mapAll(t, rec)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "fw-ams-01.example", row["Hostname"])
	assert.Equal(t, "Amsterdam", row["Branch"])
	assert.Equal(t, "Serverruimte 1", row["Location"])
	assert.Equal(t, "2024-11-19", row["Registration Date"])
	assert.Equal(t, "2025-02-01", row["Last Updated"])
	assert.Equal(t, "SUP.FGT70GTK25008471", row["Contract Number"])
	assert.Equal(t, "2027-11-19", row["Contract Expiration Date"])
	assert.Equal(t, StatusActive, row["Contract Status"])
	assert.Equal(t, "No", row["Archived"])
	assert.Equal(t, "TopDesk", row["Source System"])
}

func TestMapRowParentTracking(t *testing.T) {
	rec := &models.RawDeviceRecord{
		Source: models.SourceFortiManager,
		Family: models.FamilyFortiAP,
		Serial: "FP231FTF20000001",
		Name:   "ap-floor-2",
		Parent: &models.ParentLink{
			Name:     "branch-fw",
			Serial:   "FGT60F0000000001",
			Platform: "FortiGate-60F",
			IP:       "10.0.0.1",
		},
		Fields: map[string]string{
			"board_mac":    "00:11:22:33:44:55",
			"client_count": "17",
			"wtp_mode":     "normal",
			"vdom":         "root",
		},
	}

	rows := mapAll(t, rec)
	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "Access Point", row["Asset Type"])
	assert.Equal(t, "branch-fw", row["Parent FortiGate"])
	assert.Equal(t, "FGT60F0000000001", row["Parent FortiGate Serial"])
	assert.Equal(t, "FortiGate-60F", row["Parent FortiGate Platform"])
	assert.Equal(t, "10.0.0.1", row["Parent FortiGate IP"])
	assert.Equal(t, "00:11:22:33:44:55", row["Board MAC"])
	assert.Equal(t, "17", row["Client Count"])
}

func mapAll(t *testing.T, rec *models.RawDeviceRecord) []Row {
	t.Helper()

	var rows []Row

	for _, pair := range Flatten(rec) {
		row, err := MapRow(pair, testNow)
		require.NoError(t, err)

		rows = append(rows, row)
	}

	return rows
}
