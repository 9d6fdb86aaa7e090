package frontmatter

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrNotMapping       = errors.New("frontmatter: metadata block is not a mapping")
	ErrSchemaInvalid    = errors.New("frontmatter: schema invalid")
	ErrSchemaValidation = errors.New("frontmatter: schema validation failed")
)

const (
	decodeFailedCode   = "FRONTMATTER_DECODE_FAILED"
	notMappingCode     = "FRONTMATTER_NOT_MAPPING"
	documentFailedCode = "FRONTMATTER_DOCUMENT_FAILED"
	schemaInvalidCode  = "FRONTMATTER_SCHEMA_INVALID"
)

func wrapDecodeError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "frontmatter: metadata block could not be decoded").
		WithTextCode(decodeFailedCode)
}

func wrapNotMapping() error {
	return goerrors.Wrap(ErrNotMapping, goerrors.CategoryValidation, "frontmatter: metadata block must be a key/value mapping").
		WithTextCode(notMappingCode)
}

func wrapDocumentError(err error) error {
	if err == nil {
		return nil
	}
	if goerrors.IsWrapped(err) {
		return err
	}
	return goerrors.Wrap(err, goerrors.CategoryValidation, "frontmatter: document could not be decoded").
		WithTextCode(documentFailedCode)
}

func wrapSchemaError(err error) error {
	return goerrors.Wrap(errors.Join(ErrSchemaInvalid, err), goerrors.CategoryValidation, "frontmatter: schema could not be compiled").
		WithTextCode(schemaInvalidCode)
}
