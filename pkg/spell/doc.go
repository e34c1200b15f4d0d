// Package spell models one configured spell and the asset files generated for
// it. Records are decoded eagerly into typed structs, so a missing or
// mistyped field is reported when the spell is constructed rather than part
// way through rendering.
package spell
