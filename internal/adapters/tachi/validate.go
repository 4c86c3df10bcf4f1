package tachi

import (
	"crypto/sha256"
	_ "embed"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/gowebpki/jcs"
	"github.com/kaptinlin/jsonschema"
)

//go:embed import.schema.json
var importSchema []byte

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledSchema, schemaErr = compiler.Compile(importSchema)
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile import schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// Validate checks an encoded import against the import schema.
func Validate(body []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(body)
	if result.IsValid() {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrInvalidImport, result.Errors)
}

// Digest returns the sha256 of the RFC 8785 canonical form of body.
// Equal imports produce equal digests whatever their key order.
func Digest(body []byte) (string, error) {
	canonical, err := jcs.Transform(body)
	if err != nil {
		return "", fmt.Errorf("canonicalize import: %w", err)
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}
