package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"golang.org/x/mod/modfile"
)

// Project describes a detected project root
type Project struct {
	// RootPath is the directory holding the project marker
	RootPath string
	// Type is the project language ("python", "go")
	Type string
	// Name is the root component of the project's qualified module names
	Name string
}

// marker pairs a root marker file with the project type it indicates
type marker struct {
	file        string
	projectType string
}

// Detector identifies project root folders and derives module names for
// source files within them
type Detector struct {
	fs      afs.Service
	markers []marker
}

// New creates a new project detector instance
func New() *Detector {
	return &Detector{
		fs: afs.New(),
		markers: []marker{
			{file: "go.mod", projectType: "go"},
			{file: "pyproject.toml", projectType: "python"},
			{file: "setup.py", projectType: "python"},
			{file: "requirements.txt", projectType: "python"},
		},
	}
}

// DetectProject identifies the project root for the given file or directory
// path by searching up the directory tree for project markers
func (d *Detector) DetectProject(ctx context.Context, location string) (*Project, error) {
	absPath, err := filepath.Abs(location)
	if err != nil {
		return nil, err
	}
	dir := absPath
	if ok, _ := d.fs.Exists(ctx, absPath); ok {
		if object, err := d.fs.Object(ctx, absPath); err == nil && !object.IsDir() {
			dir = filepath.Dir(absPath)
		}
	}

	for {
		for _, candidate := range d.markers {
			markerPath := filepath.Join(dir, candidate.file)
			if ok, _ := d.fs.Exists(ctx, markerPath); !ok {
				continue
			}
			project := &Project{
				RootPath: dir,
				Type:     candidate.projectType,
				Name:     filepath.Base(dir),
			}
			if candidate.file == "go.mod" {
				if name, err := d.goModuleName(ctx, markerPath); err == nil && name != "" {
					project.Name = name
				}
			}
			return project, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return nil, fmt.Errorf("no project root found for %s", location)
}

// goModuleName reads the module path declared in go.mod
func (d *Detector) goModuleName(ctx context.Context, location string) (string, error) {
	data, err := d.fs.DownloadWithURL(ctx, location)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", location, err)
	}
	return modfile.ModulePath(data), nil
}

// ModuleName derives the dotted qualified module name of a source file
// relative to the project root, e.g. pkg/util.py becomes pkg.util and
// pkg/__init__.py becomes pkg.
func (d *Detector) ModuleName(project *Project, filePath string) string {
	relative, err := filepath.Rel(project.RootPath, filePath)
	if err != nil {
		relative = filePath
	}
	relative = strings.TrimSuffix(relative, filepath.Ext(relative))
	parts := strings.Split(filepath.ToSlash(relative), "/")
	if len(parts) > 0 && parts[len(parts)-1] == "__init__" {
		parts = parts[:len(parts)-1]
	}
	if len(parts) == 0 {
		return project.Name
	}
	return strings.Join(parts, ".")
}
