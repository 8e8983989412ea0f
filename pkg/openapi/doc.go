// Package openapi imports form descriptors from OpenAPI 3 documents. The
// request body of an operation becomes the field list; kin-openapi types stay
// inside this package.
package openapi
