// Package notebook scans directories for .ipynb files and performs the file
// operations behind the notebook list. Selection and rendering are the
// caller's concern.
package notebook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nbtree/nbtree/internal/config"
)

// CheckpointDir is created inside the browsed directory on first checkpoint.
const CheckpointDir = ".nbtree_checkpoints"

// Minimal nbformat 4 document. Jupyter fills in the rest on first save.
const untitledSkeleton = `{
 "cells": [],
 "metadata": {},
 "nbformat": 4,
 "nbformat_minor": 5
}
`

// Entry is one notebook file in the browsed directory.
type Entry struct {
	Name    string
	Path    string
	Size    int64
	ModTime time.Time
	Hidden  bool
}

// SortMode orders the notebook list.
type SortMode string

const (
	SortName     SortMode = "name"
	SortModified SortMode = "modified"
	SortSize     SortMode = "size"
)

// Next cycles name → modified → size → name.
func (m SortMode) Next() SortMode {
	switch m {
	case SortName:
		return SortModified
	case SortModified:
		return SortSize
	default:
		return SortName
	}
}

// SortEntries orders entries in place: names case-insensitively ascending,
// modification times newest first, sizes largest first. Ties fall back to
// the name order.
func SortEntries(entries []Entry, mode SortMode) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch mode {
		case SortModified:
			if !a.ModTime.Equal(b.ModTime) {
				return a.ModTime.After(b.ModTime)
			}
		case SortSize:
			if a.Size != b.Size {
				return a.Size > b.Size
			}
		}
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	})
}

// Store performs file operations in one browsed directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory must already exist.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the browsed directory.
func (s *Store) Dir() string {
	return s.dir
}

// Scan lists the notebook files in the store's directory. Dotfiles are
// skipped unless includeHidden is set. Subdirectories are never descended
// into; nbtree browses one directory at a time.
func (s *Store) Scan(includeHidden bool) ([]Entry, error) {
	dirEntries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", s.dir, err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		name := de.Name()
		if !strings.EqualFold(filepath.Ext(name), ".ipynb") {
			continue
		}
		hidden := strings.HasPrefix(name, ".")
		if hidden && !includeHidden {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{
			Name:    name,
			Path:    filepath.Join(s.dir, name),
			Size:    info.Size(),
			ModTime: info.ModTime(),
			Hidden:  hidden,
		})
	}
	return entries, nil
}

// CreateUntitled writes a new empty notebook with a unique Untitled name
// and returns its file name.
func (s *Store) CreateUntitled() (string, error) {
	name := "Untitled.ipynb"
	path := filepath.Join(s.dir, name)
	counter := 1
	for {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			break
		}
		name = fmt.Sprintf("Untitled%d.ipynb", counter)
		path = filepath.Join(s.dir, name)
		counter++
	}

	if err := os.WriteFile(path, []byte(untitledSkeleton), config.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to create notebook: %w", err)
	}
	return name, nil
}

// Duplicate copies path to "<name>-Copy<n>.ipynb" beside it, picking the
// first unused counter, and returns the new file name.
func (s *Store) Duplicate(path string) (string, error) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	dstName := name + "-Copy1" + ext
	dstPath := filepath.Join(dir, dstName)
	counter := 2
	for {
		if _, err := os.Stat(dstPath); os.IsNotExist(err) {
			break
		}
		dstName = fmt.Sprintf("%s-Copy%d%s", name, counter, ext)
		dstPath = filepath.Join(dir, dstName)
		counter++
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read notebook: %w", err)
	}
	if err := os.WriteFile(dstPath, data, config.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to write copy: %w", err)
	}
	return dstName, nil
}

// Rename moves path to newBase inside the same directory, appending the
// .ipynb extension when missing. Existing targets are never overwritten.
func (s *Store) Rename(path, newBase string) (string, error) {
	newBase = strings.TrimSpace(newBase)
	if newBase == "" {
		return "", fmt.Errorf("new name is empty")
	}
	if !strings.EqualFold(filepath.Ext(newBase), ".ipynb") {
		newBase += ".ipynb"
	}

	dstPath := filepath.Join(filepath.Dir(path), newBase)
	if dstPath == path {
		return newBase, nil
	}
	if _, err := os.Stat(dstPath); err == nil {
		return "", fmt.Errorf("%s already exists", newBase)
	}
	if err := os.Rename(path, dstPath); err != nil {
		return "", fmt.Errorf("failed to rename: %w", err)
	}
	return newBase, nil
}

// Delete removes the notebook at path.
func (s *Store) Delete(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Checkpoint copies path into the checkpoint directory with a timestamp
// suffix and returns the checkpoint file name. The checkpoint directory is
// created on demand and, being a dotfile directory, never shows up in Scan.
func (s *Store) Checkpoint(path string) (string, error) {
	cpDir := filepath.Join(filepath.Dir(path), CheckpointDir)
	if err := os.MkdirAll(cpDir, config.DirPermissions); err != nil {
		return "", fmt.Errorf("failed to create checkpoint directory: %w", err)
	}

	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	cpName := fmt.Sprintf("%s-%s%s", name, time.Now().Format("20060102-150405"), ext)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read notebook: %w", err)
	}
	if err := os.WriteFile(filepath.Join(cpDir, cpName), data, config.FilePermissions); err != nil {
		return "", fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return cpName, nil
}
