package fsops

// FakeDeleter implements Deleter for testing
// Records all delete calls without touching the filesystem; Fail injects
// errors for specific paths.
type FakeDeleter struct {
	Calls []string
	Fail  map[string]error
}

func (f *FakeDeleter) Remove(path string) error {
	f.Calls = append(f.Calls, path)
	if err, ok := f.Fail[path]; ok {
		return err
	}
	return nil
}
