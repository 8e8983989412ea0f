package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	// ErrOperationNotFound is returned when the requested operation id is not
	// declared by the document.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no object request body.
	ErrNoRequestBody = errors.New("openapi: operation has no object request body")
)

// Operation is one path+method pair with its request body schema.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	body        *openapi3.Schema
}

// HasBody reports whether the operation declares a request body schema.
func (o Operation) HasBody() bool {
	return o.body != nil
}

// Option configures document parsing.
type Option func(*parserConfig)

type parserConfig struct {
	externalRefs bool
	validate     bool
}

// WithExternalRefs allows $ref pointers to other documents.
func WithExternalRefs(enabled bool) Option {
	return func(cfg *parserConfig) {
		cfg.externalRefs = enabled
	}
}

// WithValidation validates the document before extracting operations.
func WithValidation(enabled bool) Option {
	return func(cfg *parserConfig) {
		cfg.validate = enabled
	}
}

var methods = []string{"GET", "PUT", "POST", "DELETE", "PATCH", "HEAD", "OPTIONS", "TRACE"}

// Operations loads raw (JSON or YAML) and returns every operation keyed by
// operationId. Operations without an id are keyed "<method>:<path>".
func Operations(ctx context.Context, raw []byte, opts ...Option) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	var cfg parserConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if cfg.validate {
		if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for _, method := range methods {
			collectOperation(operations, method, path, item.GetOperation(method))
		}
	}
	if len(operations) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return operations, nil
}

// OperationIDs lists the operation ids declared by raw, sorted.
func OperationIDs(ctx context.Context, raw []byte, opts ...Option) ([]string, error) {
	operations, err := Operations(ctx, raw, opts...)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(operations))
	for id := range operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func collectOperation(target map[string]Operation, method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	target[id] = Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
		body:        requestSchema(operation.RequestBody),
	}
}

func requestSchema(body *openapi3.RequestBodyRef) *openapi3.Schema {
	if body == nil || body.Value == nil {
		return nil
	}
	content := body.Value.Content
	for _, mediaType := range []string{"application/x-www-form-urlencoded", "application/json", "multipart/form-data"} {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	return nil
}
