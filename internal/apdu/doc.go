// Package apdu decodes fixed-layout, little-endian application payloads
// (APDUs) from mesh nodes into ordered, named records.
//
// Each message kind has a Table of Schemas keyed by protocol version range.
// Decoding runs resolve → primitive decode → derivations and stops at the
// first failure; no partial record is ever returned.
package apdu
