// Package model defines the Field Descriptor types a dynamic form is built
// from. Descriptors are plain data: callers construct them (or load them from
// JSON/YAML through Parse/LoadFile) before rendering and nothing downstream
// mutates them. Validation rules follow the react-hook-form vocabulary
// (required, minLength/maxLength, min/max, pattern) and every rule carries the
// message surfaced when it fails. Presentation hints (placeholder, icon, css,
// error display) never change behaviour.
package model
