/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	_ "embed"
	"fmt"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed template.schema.json
var templateSchema []byte

// ValidateDocumentJSON checks raw document bytes against the embedded JSON
// schema before parsing, so a corrupted or foreign file fails with concrete
// field errors instead of silently zeroed struct fields.
func ValidateDocumentJSON(b []byte) error {
	schemaLoader := gojsonschema.NewBytesLoader(templateSchema)
	docLoader := gojsonschema.NewBytesLoader(b)
	result, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return fmt.Errorf("schema validate: %w", err)
	}
	if !result.Valid() {
		msg := ""
		for i, e := range result.Errors() {
			if i > 0 {
				msg += "; "
			}
			msg += e.String()
		}
		return fmt.Errorf("document does not match schema: %s", msg)
	}
	return nil
}
