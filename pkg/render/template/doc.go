// Package template defines the renderer-agnostic template contract.
package template
