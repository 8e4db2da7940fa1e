// Bazaar - E-commerce Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bazaar

// Package validation validates API request bodies with
// go-playground/validator v10.
//
// A single validator instance is built lazily and shared; it caches struct
// metadata, so repeated validation of the same request types is cheap.
// Errors name fields by their json tag and are converted to the API's
// VALIDATION_ERROR body with ToAPIError.
//
// Besides the built-in tags the validator registers:
//
//   - entityid: a printable user or item identifier without surrounding
//     whitespace, at most MaxIDLength bytes
package validation
