package mods

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// tomlProjectFile represents the project file as it is encoded in TOML.
type tomlProjectFile struct {
	Project *tomlProject `toml:"project"`
}

// tomlProject represents a joosc project as it is encoded in TOML.
type tomlProject struct {
	Name       string   `toml:"name"`
	SourceDirs []string `toml:"source-dirs,omitempty"`
	OutputPath string   `toml:"output,omitempty"`
	EmitIR     bool     `toml:"emit-ir"`
	EmitLLVM   bool     `toml:"emit-llvm"`

	PointerSizeBits int `toml:"pointer-size-bits,omitempty"`
	StackAlignment  int `toml:"stack-alignment,omitempty"`
}

// Project is a loaded and validated joosc project configuration.
type Project struct {
	// Name of the project.
	Name string

	// Root is the directory containing the project file.
	Root string

	// SourceDirs are the directories searched for source files, relative
	// to the root.
	SourceDirs []string

	// OutputPath is where the emitted IR is written.
	OutputPath string

	// EmitIR selects textual joosc IR output; EmitLLVM selects LLVM IR
	// output.  Both may be set.
	EmitIR   bool
	EmitLLVM bool

	// PointerSizeBits and StackAlignment describe the target.
	PointerSizeBits int
	StackAlignment  int
}

// ProjectFileName is the name of the project file in the project root.
const ProjectFileName = "joosc.toml"

// LoadProject loads and validates the project file in the given directory.
func LoadProject(root string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(root, ProjectFileName))
	if err != nil {
		return nil, fmt.Errorf("unable to read project file: %w", err)
	}

	var file tomlProjectFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse project file: %w", err)
	}

	if file.Project == nil {
		return nil, fmt.Errorf("project file is missing the [project] table")
	}

	if file.Project.Name == "" {
		return nil, fmt.Errorf("project file is missing the project name")
	}

	proj := &Project{
		Name:            file.Project.Name,
		Root:            root,
		SourceDirs:      file.Project.SourceDirs,
		OutputPath:      file.Project.OutputPath,
		EmitIR:          file.Project.EmitIR,
		EmitLLVM:        file.Project.EmitLLVM,
		PointerSizeBits: file.Project.PointerSizeBits,
		StackAlignment:  file.Project.StackAlignment,
	}

	if len(proj.SourceDirs) == 0 {
		proj.SourceDirs = []string{"."}
	}

	if proj.OutputPath == "" {
		proj.OutputPath = proj.Name + ".ll"
	}

	if proj.PointerSizeBits == 0 {
		proj.PointerSizeBits = 64
	}

	if proj.StackAlignment == 0 {
		proj.StackAlignment = 16
	}

	if !proj.EmitIR && !proj.EmitLLVM {
		proj.EmitLLVM = true
	}

	return proj, nil
}

// SourceFiles lists the .java files under the project's source
// directories, in deterministic order.
func (p *Project) SourceFiles() ([]string, error) {
	var files []string

	for _, dir := range p.SourceDirs {
		err := filepath.Walk(filepath.Join(p.Root, dir), func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}

			if !info.IsDir() && filepath.Ext(path) == ".java" {
				files = append(files, path)
			}

			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("unable to scan source directory: %w", err)
		}
	}

	return files, nil
}
