// Package contract defines the legal document domain: the structured
// contract record, the four-check validation report, the storage boundary
// the engine reads through, and the model-backed validation service.
//
// The engine never mutates a contract. Its only write into this package is
// saving a validation report, and that happens as the declared side effect
// of the validate_contract tool.
package contract
