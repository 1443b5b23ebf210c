// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package baseline

// baselineSchemaV1 is the embedded JSON schema for schema_version 1
// baseline documents, covering the fields in SPEC_FULL.md's data model.
// Treating the schema as a versioned embedded resource (rather than
// hand-validating ad hoc) keeps Save/Load honest about what's on the
// wire: register-index keys are strings, digests are hex (either case is
// accepted).
const baselineSchemaV1 = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "bootattestor baseline",
  "type": "object",
  "required": ["schema_version", "platform", "digests", "variables", "created_at"],
  "additionalProperties": false,
  "properties": {
    "schema_version": {"type": "integer", "const": 1},
    "platform": {"type": "string"},
    "created_at": {"type": "integer"},
    "digests": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {
          "type": "string",
          "pattern": "^[0-9a-fA-F]+$"
        },
        "propertyNames": {"pattern": "^([0-9]|1[0-9]|2[0-3])$"}
      }
    },
    "variables": {
      "type": "object",
      "additionalProperties": {
        "type": "string",
        "pattern": "^[0-9a-fA-F]{64}$"
      }
    }
  }
}`
