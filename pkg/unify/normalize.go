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
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Coverage status tokens computed from an end date at mapping time.
// Sources are inconsistent about pre-computing contract status, so the
// upstream literal is never copied.
const (
	StatusActive  = "Active"
	StatusExpired = "Expired"
	StatusUnknown = "Unknown"
)

// dateLayouts are the upstream date representations the pipeline accepts.
// All of them normalize to the plain calendar date.
var dateLayouts = []string{
	dateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.000",
	"2006-01-02 15:04:05",
}

// Date reduces any accepted upstream date representation to YYYY-MM-DD.
// Unparseable non-empty values pass through trimmed, so malformed source
// data stays visible in the output instead of being blanked.
func Date(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}

	return s
}

// Bool renders an upstream boolean as one of the two canonical tokens.
// Empty input stays empty.
func Bool(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return ""
	case "true", "yes", "1":
		return "Yes"
	default:
		return "No"
	}
}

// YesNo renders a Go bool as a canonical token.
func YesNo(b bool) string {
	if b {
		return "Yes"
	}

	return "No"
}

// Int renders an integer with no separators or decimal point.
func Int(v int64) string {
	return strconv.FormatInt(v, 10)
}

// CoverageStatus classifies a contract or entitlement by its end date as
// of now. A coverage item whose end date cannot be parsed is Unknown, not
// silently Active.
func CoverageStatus(endDate string, now time.Time) string {
	normalized := Date(endDate)
	if normalized == "" {
		return StatusUnknown
	}

	end, err := time.Parse(dateLayout, normalized)
	if err != nil {
		return StatusUnknown
	}

	// Compare calendar dates: coverage ending today is still active.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if end.Before(today) {
		return StatusExpired
	}

	return StatusActive
}
