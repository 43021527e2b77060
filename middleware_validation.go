package saluran

import (
	"context"
	"fmt"
	"time"
)

// ValidationMiddleware validates the outgoing payload against a schema before
// the request is sent. A validation failure is a raised error, never silently
// passed; when no schema is resolvable the check is skipped entirely, so
// validation never blocks a request on missing configuration.
//
// The schema resolves from the constructor, or per call from
// rc.Metadata["schema"].
type ValidationMiddleware struct {
	NopMiddleware

	schema Schema
}

// NewValidationMiddleware creates a validation unit with an optional schema.
func NewValidationMiddleware(schema Schema) *ValidationMiddleware {
	return &ValidationMiddleware{schema: schema}
}

// ProcessRequest implements Middleware.
func (m *ValidationMiddleware) ProcessRequest(ctx context.Context, rc *RequestContext) error {
	schema := m.schema
	if s, ok := rc.Metadata[MetadataSchema].(Schema); ok {
		schema = s
	}
	if schema == nil {
		return nil
	}

	if err := schema.Validate(rc.Payload); err != nil {
		return &ClientError{
			Kind:      ErrorKindValidation,
			Message:   fmt.Sprintf("payload validation failed: %v", err),
			Cause:     err,
			RequestID: rc.RequestID,
			Operation: rc.OperationKind,
			Target:    rc.Target,
			Timestamp: time.Now(),
		}
	}
	return nil
}
