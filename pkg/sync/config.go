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

package sync

import (
	"fmt"

	"github.com/carverauto/fortisync/pkg/models"
)

// Config drives one export run.
type Config struct {
	// Sources maps a source name to its connection settings. The name is
	// only a config key; the Type field selects the integration.
	Sources map[string]*models.SourceConfig `json:"sources"`
	// OutputDir receives the timestamped CSV. Defaults to the working
	// directory.
	OutputDir string `json:"output_dir"`
	// FilePrefix names the export file, defaulting to "inventory".
	FilePrefix string `json:"file_prefix"`
	// Patterns overrides the built-in family serial-pattern table.
	Patterns models.SerialPatterns `json:"serial_patterns,omitempty"`
}

const defaultFilePrefix = "inventory"

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return errMissingSources
	}

	for name, src := range c.Sources {
		if src == nil || src.Type == "" || src.Endpoint == "" {
			return fmt.Errorf("%w: %s", errMissingFields, name)
		}

		switch src.Type {
		case "forticloud", "fortimanager", "topdesk":
		default:
			return fmt.Errorf("%w: %s: %s", errUnknownSourceType, name, src.Type)
		}
	}

	if c.OutputDir == "" {
		c.OutputDir = "."
	}

	if c.FilePrefix == "" {
		c.FilePrefix = defaultFilePrefix
	}

	return nil
}
