// Package paramsync translates between a design document's user parameters
// and the flat JSON parameter file format.
//
// Import reads a parameter file and upserts every record into the active
// document by name. Export writes the document's parameters, in the
// document's own enumeration order, back out as expression-form records.
// The document itself is reached only through the Document and Provider
// interfaces, so the same code drives the local SQLite store, the in-memory
// MemDocument, or any other host.
package paramsync
