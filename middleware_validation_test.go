package saluran

import (
	"context"
	"errors"
	"testing"
)

func TestValidationMiddlewareNoSchemaSkips(t *testing.T) {
	m := NewValidationMiddleware(nil)
	rc := &RequestContext{Payload: map[string]any{"anything": true}, Metadata: make(map[string]any)}

	if err := m.ProcessRequest(context.Background(), rc); err != nil {
		t.Errorf("Expected skip with no schema, got %v", err)
	}
}

func TestValidationMiddlewarePassingSchema(t *testing.T) {
	schema := SchemaFunc(func(payload any) error { return nil })
	m := NewValidationMiddleware(schema)

	rc := &RequestContext{Payload: "ok", Metadata: make(map[string]any)}
	if err := m.ProcessRequest(context.Background(), rc); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestValidationMiddlewareFailingSchema(t *testing.T) {
	schemaErr := errors.New("missing field id")
	schema := SchemaFunc(func(payload any) error { return schemaErr })
	m := NewValidationMiddleware(schema)

	rc := &RequestContext{Target: "/users", Metadata: make(map[string]any)}
	err := m.ProcessRequest(context.Background(), rc)
	if err == nil {
		t.Fatal("Expected a validation error")
	}

	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		t.Fatalf("Expected *ClientError, got %T", err)
	}
	if clientErr.Kind != ErrorKindValidation {
		t.Errorf("Expected kind %q, got %q", ErrorKindValidation, clientErr.Kind)
	}
	if !errors.Is(err, schemaErr) {
		t.Error("Expected the schema error as cause")
	}
}

func TestValidationMiddlewareSchemaFromMetadata(t *testing.T) {
	m := NewValidationMiddleware(nil)

	called := false
	rc := &RequestContext{
		Metadata: map[string]any{
			MetadataSchema: SchemaFunc(func(payload any) error {
				called = true
				return nil
			}),
		},
	}

	if err := m.ProcessRequest(context.Background(), rc); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !called {
		t.Error("Expected the per-call schema from metadata to run")
	}
}
