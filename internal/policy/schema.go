// Copyright (c) 2022-2024 Intel Corporation
// All rights reserved.
// SPDX-License-Identifier: BSD-3-Clause

package policy

// policySchemaV1 validates a policy document: an object whose known keys
// map to arrays of register indices 0..23. Unknown keys are ignored by
// the loader, not rejected by the schema, per spec.md §4.5.
const policySchemaV1 = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "bootattestor policy",
  "type": "object",
  "properties": {
    "critical": {"$ref": "#/definitions/registerList"},
    "high": {"$ref": "#/definitions/registerList"},
    "medium": {"$ref": "#/definitions/registerList"},
    "low": {"$ref": "#/definitions/registerList"}
  },
  "additionalProperties": true,
  "definitions": {
    "registerList": {
      "type": "array",
      "items": {"type": "integer", "minimum": 0, "maximum": 23}
    }
  }
}`
