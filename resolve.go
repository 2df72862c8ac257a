package wfs

import "strings"

// splitPath validates and splits an absolute path into components, per
// §4.4's "requires a leading /". An empty remainder (the root itself)
// yields a nil, empty slice.
func splitPath(path string) ([]string, error) {
	if !strings.HasPrefix(path, "/") {
		return nil, ErrInvalidPath
	}
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil, nil
	}
	return strings.Split(trimmed, "/"), nil
}

// Resolve walks the dentry graph from the root following each component of
// path, returning the inode it names (§4.4).
func (e *Engine) Resolve(path string) (*Inode, error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, err
	}
	cur, err := e.Root()
	if err != nil {
		return nil, err
	}
	for _, name := range parts {
		if !cur.IsDir() {
			return nil, ErrNotDirectory
		}
		num, err := e.lookupInDir(cur, name)
		if err != nil {
			return nil, err
		}
		cur, err = e.readInode(num)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// ResolveParent splits path into its parent directory inode and final
// component name, failing if the parent doesn't exist or isn't a
// directory. Used by every operation that creates or removes an entry.
func (e *Engine) ResolveParent(path string) (parent *Inode, name string, err error) {
	parts, err := splitPath(path)
	if err != nil {
		return nil, "", err
	}
	if len(parts) == 0 {
		return nil, "", ErrRootOp
	}
	name = parts[len(parts)-1]
	if len(name) >= MaxName {
		return nil, "", ErrNameTooLong
	}

	dirPath := "/" + strings.Join(parts[:len(parts)-1], "/")
	parent, err = e.Resolve(dirPath)
	if err != nil {
		return nil, "", err
	}
	if !parent.IsDir() {
		return nil, "", ErrNotDirectory
	}
	return parent, name, nil
}
