/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package domain

import "strings"

// Ticket is a flat attribute bag consumed read-only by field elements.
// The renderer treats it as opaque: unknown keys resolve to a placeholder.
type Ticket map[string]string

// MissingValue is rendered wherever a bound attribute is absent or empty.
const MissingValue = "—" // em dash

// Resolve returns the display value for a ticket attribute, or MissingValue
// when the key is unknown or its value is blank.
func (t Ticket) Resolve(key string) string {
	if t == nil {
		return MissingValue
	}
	v, ok := t[key]
	if !ok || strings.TrimSpace(v) == "" {
		return MissingValue
	}
	return v
}
