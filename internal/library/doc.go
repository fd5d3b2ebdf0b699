// Package library normalizes alias library files and manages the local
// library cache.
//
// # Normalization
//
// Library files reach tnalias in several encodings: plain JSON objects,
// exporter output that wraps the map under a "plaintext" key, legacy .txt
// files holding base64 of JSON, and raw blob responses from the catalog API
// whose "content" field is itself base64. [Normalize] tries a fixed list of
// strategies in order and returns the first structurally valid alias map:
//
//  1. [StrategyDirect]: the bytes are a JSON object of strings.
//  2. [StrategyWrapped]: a JSON object whose "plaintext" member is an object of strings.
//  3. [StrategyBase64]: the bytes are base64 text of strategy 1 JSON.
//  4. [StrategyBlob]: a JSON object whose "content" member is base64; the
//     decoded bytes go through strategies 1 to 3.
//
// Object-shaped JSON always wins over base64 reinterpretation. When nothing
// matches, Normalize fails with errors.ErrUnrecognizedLibraryFormat naming
// the file.
//
// # Cache
//
// [Cache] stores normalized entries as canonical JSON objects with a .json
// extension under a single directory, mirroring the catalog's relative
// paths. Entries are replaced wholesale, never edited in place.
package library
