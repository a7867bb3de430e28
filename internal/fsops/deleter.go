package fsops

// Deleter abstracts the final OS-level unlink/rmdir call.
// The wipe engine guarantees content is overwritten and the entry renamed
// before Remove is invoked; mocking Remove lets tests prove dry-run never
// deletes anything.
type Deleter interface {
	Remove(path string) error
}
