/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package annotations defines the interchange document for page tile sets.
// It converts between the in-memory polygon representation and a versioned
// JSON document the host hands to whatever stores it. The package does no
// I/O itself; reading and writing bytes is the host's business.
package annotations

import (
	"encoding/json"
	"errors"
	"fmt"

	gojsonschema "github.com/xeipuuv/gojsonschema"

	"comicsviewer/internal/geom"
)

// Version is the current document format version.
const Version = 1

// ErrUnsupportedVersion reports a document written by a newer format.
var ErrUnsupportedVersion = errors.New("annotations: unsupported document version")

type document struct {
	Version int            `json:"version"`
	Tiles   []geom.Polygon `json:"tiles"`
}

// schemaJSON is validated against incoming documents before decoding. The
// structural rules (ring of at least three x/y vertices) live here so a
// corrupt or hand-edited document fails loudly instead of producing a
// half-empty tile set.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "Page annotations",
  "type": "object",
  "required": ["version", "tiles"],
  "additionalProperties": false,
  "properties": {
    "version": { "type": "integer", "minimum": 1 },
    "tiles": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["ring"],
        "additionalProperties": false,
        "properties": {
          "ring": {
            "type": "array",
            "minItems": 3,
            "items": {
              "type": "object",
              "required": ["x", "y"],
              "additionalProperties": false,
              "properties": {
                "x": { "type": "number" },
                "y": { "type": "number" }
              }
            }
          }
        }
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(schemaJSON)

// Encode serializes the tile outlines, in display order, as a versioned
// document in human-readable form.
func Encode(polys []geom.Polygon) ([]byte, error) {
	doc := document{Version: Version, Tiles: polys}
	if doc.Tiles == nil {
		doc.Tiles = []geom.Polygon{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal annotations: %w", err)
	}
	return append(data, '\n'), nil
}

// Decode validates a document against the schema and returns its tile
// outlines in document order. Documents from a future format version are
// rejected with ErrUnsupportedVersion.
func Decode(data []byte) ([]geom.Polygon, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validate annotations: %w", err)
	}
	if !result.Valid() {
		errs := result.Errors()
		return nil, fmt.Errorf("annotations document invalid: %s", errs[0])
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse annotations: %w", err)
	}
	if doc.Version > Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	return doc.Tiles, nil
}
