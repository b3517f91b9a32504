package biota

import "fmt"

// ErrNotFound is returned when a natural-key lookup fails against
// already-loaded rows.
type ErrNotFound struct {
	Kind EntityKind
	Key  string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// ErrStageUnready is returned when a build stage's upstream dependency has no
// committed rows yet.
type ErrStageUnready struct {
	Stage    EntityKind
	Requires EntityKind
}

func (e ErrStageUnready) Error() string {
	return fmt.Sprintf("cannot build %s: %s table is empty", e.Stage, e.Requires)
}

// ErrWriteProtected is returned when a stage attempts any table mutation under
// a BuildContext with AllowWrite unset.
type ErrWriteProtected struct {
	Stage EntityKind
}

func (e ErrWriteProtected) Error() string {
	return fmt.Sprintf("write to %s refused: build context is read-only", e.Stage)
}
