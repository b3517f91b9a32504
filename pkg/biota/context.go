package biota

// BuildMode distinguishes production loads from development and test runs.
type BuildMode string

// Recognized build modes.
const (
	ModeProd BuildMode = "prod"
	ModeDev  BuildMode = "dev"
	ModeTest BuildMode = "test"
)

// BuildContext is passed to every stage loader and gates table mutation
// explicitly, replacing ambient process-global protection flags. A loader must
// check AllowWrite before its first Reset and refuse with ErrWriteProtected.
type BuildContext struct {
	AllowWrite bool
	Mode       BuildMode
}

// WritableContext returns a context permitting mutation in the given mode.
func WritableContext(mode BuildMode) BuildContext {
	return BuildContext{AllowWrite: true, Mode: mode}
}
