// Package config parses spell configuration files into ordered attribute
// trees. YAML and JSON documents hold a top-level sequence of records; HCL
// documents hold the same records in a top-level `spells` attribute. Key order
// is preserved in every format so generated output stays deterministic.
package config
