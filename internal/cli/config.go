package cli

// Config holds the configuration for a generator run
type Config struct {
	// Directories is the list of directories to scan for annotated Go files.
	// Entries may use Go-style recursive patterns like "./...".
	Directories []string

	// ModuleName overrides the module path used to build package import
	// paths. If empty, it is read from the nearest go.mod.
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool
}
