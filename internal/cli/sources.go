package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/roach88/matchc/internal/compiler"
	"github.com/roach88/matchc/internal/config"
	"github.com/roach88/matchc/internal/parser"
	"github.com/roach88/matchc/internal/rewrite"
)

// Source is one input file.
type Source struct {
	Path string // path as found
	Rel  string // path relative to the argument it was found under
}

// LoadError is a failure to find or read inputs.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// isSourceFile reports whether path is a TypeScript source the compiler
// rewrites. Declaration files carry no code.
func isSourceFile(path string) bool {
	if strings.HasSuffix(path, ".d.ts") {
		return false
	}
	ext := filepath.Ext(path)
	return ext == ".ts" || ext == ".tsx"
}

// FindSources expands paths into source files. Directories are walked;
// files named explicitly are taken whatever their extension.
func FindSources(paths []string) ([]Source, error) {
	var out []Source
	seen := make(map[string]bool)
	add := func(s Source) {
		if !seen[s.Path] {
			seen[s.Path] = true
			out = append(out, s)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", root)}
		}
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", root, err)}
		}
		if !info.IsDir() {
			add(Source{Path: root, Rel: filepath.Base(root)})
			continue
		}

		var found []Source
		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (d.Name() == "node_modules" || strings.HasPrefix(d.Name(), ".")) {
					return filepath.SkipDir
				}
				return nil
			}
			if !isSourceFile(path) {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			found = append(found, Source{Path: path, Rel: rel})
			return nil
		})
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning %s: %v", root, err)}
		}
		sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })
		for _, s := range found {
			add(s)
		}
	}

	if len(out) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no .ts or .tsx files found in %s", strings.Join(paths, ", "))}
	}
	return out, nil
}

// diagnose turns a compile failure of file into a located diagnostic.
func diagnose(file string, err error) Diagnostic {
	d := Diagnostic{File: file, Code: ErrCodeGeneric, Message: err.Error()}

	var re *rewrite.Error
	if errors.As(err, &re) {
		if re.File != "" {
			d.File = re.File
		}
		d.Line, d.Column = re.Pos.Line, re.Pos.Column
	}

	var ce *compiler.CompileError
	var pe *parser.Error
	var cfgErr *config.Error
	switch {
	case errors.As(err, &ce):
		d.Code, d.Message = ce.Code, ce.Message
		if d.Line == 0 && ce.Pos.IsValid() {
			d.Line, d.Column = ce.Pos.Line, ce.Pos.Column
		}
	case errors.As(err, &pe):
		d.Code, d.Message = ErrCodeSyntax, pe.Message
		if pe.Pos.IsValid() {
			d.Line, d.Column = pe.Pos.Line, pe.Pos.Column
		}
	case errors.As(err, &cfgErr):
		d.Code, d.Message = cfgErr.Code, cfgErr.Message
		if cfgErr.File != "" {
			d.File = cfgErr.File
		}
		if cfgErr.Pos.IsValid() {
			d.Line, d.Column = cfgErr.Pos.Line(), cfgErr.Pos.Column()
		}
	}
	return d
}
