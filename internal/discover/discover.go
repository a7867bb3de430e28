package discover

import (
	"io/fs"
	"path/filepath"
)

// Tree is the flat discovery result for one root directory.
// The wipe engine never walks the filesystem itself; it consumes these
// lists and tracks each entry's current path from there on.
type Tree struct {
	Files    []string // Regular files, in walk order
	Dirs     []string // Subdirectories of root, root itself excluded
	Specials []string // Symlinks, sockets, fifos: removed without overwrite
	Errors   []Error  // Entries that could not be read; the rest of the tree stands
}

// Error is one entry the walk could not read
type Error struct {
	Path string
	Err  error
}

// Walk collects every entry under root. Root must be an existing, readable
// directory; failing on the root itself is an error. Unreadable entries
// below it are recorded in Errors and the walk continues, so one bad
// subdirectory never hides the rest of the tree from the wipe.
func Walk(root string) (*Tree, error) {
	tree := &Tree{}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			tree.Errors = append(tree.Errors, Error{Path: path, Err: err})
			return nil
		}
		if path == root {
			return nil
		}
		switch {
		case d.IsDir():
			tree.Dirs = append(tree.Dirs, path)
		case d.Type().IsRegular():
			tree.Files = append(tree.Files, path)
		default:
			tree.Specials = append(tree.Specials, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tree, nil
}
