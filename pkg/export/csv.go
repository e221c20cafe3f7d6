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

// Package export serializes unified rows to delimited files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/carverauto/fortisync/pkg/unify"
)

// WriteCSV writes the unified header followed by every row, in order.
// Rows are emitted strictly in the schema's column order so outputs from
// different runs and sources stay diffable by position.
func WriteCSV(w io.Writer, rows []unify.Row) error {
	cols := unify.Columns()

	cw := csv.NewWriter(w)

	if err := cw.Write(cols); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(cols))

	for i, row := range rows {
		for j, col := range cols {
			record[j] = row[col]
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteFile writes rows to path, creating or truncating it.
func WriteFile(path string, rows []unify.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}

	return f.Close()
}

// Filename builds a timestamped output filename like
// "inventory_20251001_153045.csv".
func Filename(prefix string, t time.Time) string {
	return fmt.Sprintf("%s_%s.csv", prefix, t.Format("20060102_150405"))
}
