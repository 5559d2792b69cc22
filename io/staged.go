package io

import (
	"fmt"
	"os"
	"path/filepath"
)

// Staged collects output files which are written to temporary names and only
// moved into place by Commit. A failed run leaves no partial outputs behind.
type Staged struct {
	dir        string
	files      []*os.File
	tmp, final []string
	closed     bool
}

func NewStaged(dir string) (*Staged, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Staged{dir: dir}, nil
}

// Create opens a temporary file in the output directory which will become
// name on Commit.
func (st *Staged) Create(name string) (*os.File, error) {
	final := filepath.Join(st.dir, name)
	f, err := os.CreateTemp(st.dir, "."+name+".*.tmp")
	if err != nil {
		return nil, err
	}
	st.files = append(st.files, f)
	st.tmp = append(st.tmp, f.Name())
	st.final = append(st.final, final)
	return f, nil
}

func (st *Staged) closeAll() error {
	if st.closed {
		return nil
	}
	st.closed = true
	var first error
	for _, f := range st.files {
		if err := f.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Commit closes every staged file and renames it to its final name.
func (st *Staged) Commit() error {
	if err := st.closeAll(); err != nil {
		st.Abort()
		return err
	}
	for i := range st.tmp {
		if err := os.Rename(st.tmp[i], st.final[i]); err != nil {
			st.Abort()
			return fmt.Errorf("could not move %s into place: %w",
				st.final[i], err)
		}
	}
	st.tmp, st.final = nil, nil
	return nil
}

// Abort removes every staged file which hasn't been committed. It is safe to
// call after Commit.
func (st *Staged) Abort() {
	st.closeAll()
	for _, name := range st.tmp {
		os.Remove(name)
	}
	st.tmp, st.final = nil, nil
}
