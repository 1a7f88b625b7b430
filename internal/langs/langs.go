// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package langs reads the judge's language definition files.

Each file is a YAML document with a top-level version and a language block:

	version: "1"
	language:
	  name: python3
	  compile: ...

Only the name is used here. It becomes the allow-list for the language field
of the submission form, so the form rejects languages the judge cannot run.
*/
package langs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Definition is the subset of a judge language file this service reads.
type Definition struct {
	Version  string `yaml:"version"`
	Language struct {
		Name string `yaml:"name"`
	} `yaml:"language"`
}

// ErrNoLanguages is returned when a directory holds no usable definitions.
var ErrNoLanguages = errors.New("langs: no language definitions found")

// Load reads every *.yaml and *.yml file directly under dir and returns the
// sorted, de-duplicated language names.
//
// An empty dir returns a nil list and no error: no allow-list is applied.
func Load(dir string) ([]string, error) {
	if dir == "" {
		return nil, nil
	}
	return LoadFS(os.DirFS(dir))
}

// LoadFS is [Load] over an arbitrary filesystem root.
func LoadFS(fsys fs.FS) ([]string, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("langs: read directory: %w", err)
	}

	seen := make(map[string]struct{})
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
		default:
			continue
		}

		name, err := readName(fsys, entry.Name())
		if err != nil {
			return nil, err
		}
		seen[name] = struct{}{}
	}

	if len(seen) == 0 {
		return nil, ErrNoLanguages
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func readName(fsys fs.FS, path string) (string, error) {
	raw, err := fs.ReadFile(fsys, path)
	if err != nil {
		return "", fmt.Errorf("langs: read %s: %w", path, err)
	}

	var def Definition
	if err := yaml.Unmarshal(raw, &def); err != nil {
		return "", fmt.Errorf("langs: parse %s: %w", path, err)
	}

	name := strings.TrimSpace(def.Language.Name)
	if name == "" {
		return "", fmt.Errorf("langs: %s has no language.name", path)
	}
	return name, nil
}
