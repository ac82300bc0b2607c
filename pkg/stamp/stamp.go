// Package stamp defines the contract between generated code and its
// consumers. The generator emits one autogen_artefact.go per tagged package;
// everything in here is what that generated code, and code inspecting tagged
// values, can rely on.
package stamp

const (
	// AccessorName is the name of the generated artefact type accessor.
	AccessorName = "ArtefactType"

	// GeneratedFileName is the file the generator writes into each package
	// that contains at least one tagged struct.
	GeneratedFileName = "autogen_artefact.go"
)

// Artefact is implemented by every struct carrying a //stamp::artefact
// annotation once generation has run.
type Artefact interface {
	ArtefactType() string
}

// TypeOf returns the artefact type of v if it is a tagged struct. The second
// return is false for untagged values.
func TypeOf(v any) (string, bool) {
	if artefact, ok := v.(Artefact); ok {
		return artefact.ArtefactType(), true
	}
	return "", false
}
