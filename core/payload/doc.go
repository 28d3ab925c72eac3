// Package payload defines the canonical multi-part content representation used
// throughout conclave for everything an agent produces or consumes.
//
// A [Payload] is an ordered list of [Part] values, each of which is either
// text, an image reference, or an opaque binary blob. Backends and capability
// providers return content in wildly different shapes (a bare string, a list
// of typed blocks, a half-broken JSON fragment); [Normalize] coerces any of
// these into the canonical union so that downstream code never has to
// type-check raw content again.
package payload
