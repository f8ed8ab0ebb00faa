package synth

// Manifest marks a successful synthesis pass. After synthesis the
// generated version always equals the source version; the two diverge
// only when a stale snapshot is compared against a newer catalog.
type Manifest struct {
	SourceVersion    string `json:"sourceVersion"`
	GeneratedVersion string `json:"generatedVersion"`
}

// NeedsRegeneration reports whether the surface recorded in the manifest
// is stale relative to catalogVersion. The version comparison is the
// only staleness signal; content hashing of unrelated files never
// triggers regeneration.
func NeedsRegeneration(m Manifest, catalogVersion string) bool {
	return m.GeneratedVersion != catalogVersion
}
