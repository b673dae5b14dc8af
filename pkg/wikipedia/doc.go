// Package wikipedia is a small client for the public Wikipedia REST and
// MediaWiki Action APIs.
//
// It exposes three lookups used by the MCP tools:
//   - Search: page summary by exact title
//   - GetSections: table-of-contents outline of a page
//   - GetSectionContent: plain text of one section, resolved by title
//
// # Absent vs placeholder results
//
// Every lookup returns either a populated entity or nil. A nil result means
// no coherent entity could be built (blank input, upstream 404, network
// failure, malformed JSON). Conditions that can be explained to the caller,
// such as an unknown section title or an empty section, produce a populated
// entity whose text says so. Front ends rely on this split: nil maps to a
// "not found" response, a placeholder renders as a normal success.
//
// The Lookup* variants return the same results together with a typed *Error
// describing why a result is absent.
//
// # Concurrency
//
// A Client is safe for concurrent use. It holds no per-request state; each
// lookup issues one or two sequential HTTP calls bound to the caller's context.
package wikipedia
