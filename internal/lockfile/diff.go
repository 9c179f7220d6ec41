package lockfile

// ChangedPackage describes a package present in both lock files whose
// version or source changed between them.
type ChangedPackage struct {
	Name      string
	OldVersion string
	NewVersion string
	OldSource string
	NewSource string
}

// Diff is the result of comparing two lock files, used to show a human what
// an install/update would actually change before it writes kcjpm.lock.
type Diff struct {
	Added   []LockedPackage
	Removed []LockedPackage
	Changed []ChangedPackage
}

// IsEmpty reports whether old and new describe the same locked graph.
func (d Diff) IsEmpty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// DiffLockFiles compares two lock files by package name. It is not part of
// spec.md's core install/resolve flow but gives a caller (a future CLI, or a
// test) a way to show exactly what changed before committing a new lock.
func DiffLockFiles(old, new LockFile) Diff {
	oldByName := old.byName()
	newByName := new.byName()

	var d Diff
	for name, n := range newByName {
		o, existed := oldByName[name]
		if !existed {
			d.Added = append(d.Added, n)
			continue
		}
		if o.Version != n.Version || o.Source != n.Source {
			d.Changed = append(d.Changed, ChangedPackage{
				Name:       name,
				OldVersion: o.Version,
				NewVersion: n.Version,
				OldSource:  o.Source,
				NewSource:  n.Source,
			})
		}
	}
	for name, o := range oldByName {
		if _, stillPresent := newByName[name]; !stillPresent {
			d.Removed = append(d.Removed, o)
		}
	}
	return d
}
