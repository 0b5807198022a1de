package schema

// DiscriminatorKey is the synthetic field inserted into a unified
// record-union map value identifying the source record variant (spec
// §6, §4.7). Shared between the avro and normalize packages so both
// agree on the literal without importing each other.
const DiscriminatorKey = "__key__"
