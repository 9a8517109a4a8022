package hcl

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/jogjacamp/invoke/internal/ctxlog"
	"github.com/jogjacamp/invoke/internal/registry"
	"github.com/jogjacamp/invoke/internal/shell"
	"github.com/jogjacamp/invoke/internal/task"
)

// Loader parses taskfiles and produces a registry of definitions whose
// bodies run through the given shell runner.
type Loader struct {
	runner *shell.Runner
}

// NewLoader creates a taskfile loader.
func NewLoader(runner *shell.Runner) *Loader {
	return &Loader{runner: runner}
}

// Load reads the taskfile at path, or every *.hcl file under it when path is
// a directory, and returns the populated registry.
func (l *Loader) Load(ctx context.Context, path string) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := findTaskfiles(path)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl taskfiles found at %q", path)
	}
	logger.Debug("Discovered taskfiles.", "count", len(files))

	parser := hclparse.NewParser()
	blocks := make(map[string]*sourcedBlock)
	var order []string
	for _, file := range files {
		parsed, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("parsing %s: %w", file, diags)
		}
		var f File
		if diags := gohcl.DecodeBody(parsed.Body, nil, &f); diags.HasErrors() {
			return nil, fmt.Errorf("decoding %s: %w", file, diags)
		}
		for _, t := range f.Tasks {
			if _, dup := blocks[t.Name]; dup {
				return nil, fmt.Errorf("task %q declared more than once", t.Name)
			}
			blocks[t.Name] = &sourcedBlock{block: t, dir: filepath.Dir(file)}
			order = append(order, t.Name)
		}
	}

	b := &builder{runner: l.runner, blocks: blocks, built: make(map[string]*task.Definition)}
	reg := registry.New()
	for _, name := range order {
		def, err := b.definition(name, nil)
		if err != nil {
			return nil, err
		}
		if err := reg.Add(def); err != nil {
			return nil, err
		}
	}
	logger.Debug("Taskfile loading complete.", "task_count", reg.Len())
	return reg, nil
}

// sourcedBlock pairs a task block with the directory of the file that
// declared it, so relative paths in checks resolve against the taskfile.
type sourcedBlock struct {
	block *TaskBlock
	dir   string
}

// builder memoizes definition construction so every name maps to exactly one
// Definition, and detects cycles in the declarations themselves.
type builder struct {
	runner *shell.Runner
	blocks map[string]*sourcedBlock
	built  map[string]*task.Definition
}

// definition resolves name into a Definition, constructing its dependencies
// and followups first. trail carries the chain of declarations currently
// being resolved, for cycle reporting.
func (b *builder) definition(name string, trail []string) (*task.Definition, error) {
	if def, ok := b.built[name]; ok {
		return def, nil
	}
	for _, seen := range trail {
		if seen == name {
			return nil, fmt.Errorf("task declarations form a cycle: %s -> %s", strings.Join(trail, " -> "), name)
		}
	}

	src, ok := b.blocks[name]
	if !ok {
		from := "taskfile"
		if len(trail) > 0 {
			from = fmt.Sprintf("task %q", trail[len(trail)-1])
		}
		return nil, fmt.Errorf("%s references unknown task %q", from, name)
	}

	block := src.block
	trail = append(trail, name)
	var opts []task.Option
	if block.Description != "" {
		opts = append(opts, task.WithDescription(block.Description))
	}
	for _, depName := range block.DependsOn {
		dep, err := b.definition(depName, trail)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.DependsOn(task.Called(dep, nil)))
	}
	for _, postName := range block.Afterwards {
		post, err := b.definition(postName, trail)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.Afterwards(task.Called(post, nil)))
	}
	for _, check := range block.Checks {
		c, err := b.check(name, src.dir, check)
		if err != nil {
			return nil, err
		}
		opts = append(opts, task.WithChecks(c))
	}

	var body task.Body
	if block.Command != "" {
		body = b.runner.Body(block.Command)
	}

	def := task.New(name, body, opts...)
	b.built[name] = def
	return def, nil
}

// check translates one check block into a predicate. dir anchors relative
// file paths.
func (b *builder) check(taskName, dir string, block *CheckBlock) (task.Check, error) {
	switch block.Kind {
	case "file_exists":
		var c fileExistsCheck
		if diags := gohcl.DecodeBody(block.Body, nil, &c); diags.HasErrors() {
			return nil, fmt.Errorf("task %q, check %q: %w", taskName, block.Kind, diags)
		}
		path := c.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		return task.FileExists(path), nil
	case "command":
		var c commandCheck
		if diags := gohcl.DecodeBody(block.Body, nil, &c); diags.HasErrors() {
			return nil, fmt.Errorf("task %q, check %q: %w", taskName, block.Kind, diags)
		}
		return b.runner.CommandOK(c.Run), nil
	case "env_set":
		var c envSetCheck
		if diags := gohcl.DecodeBody(block.Body, nil, &c); diags.HasErrors() {
			return nil, fmt.Errorf("task %q, check %q: %w", taskName, block.Kind, diags)
		}
		return task.EnvSet(c.Name), nil
	default:
		return nil, fmt.Errorf("task %q: unknown check kind %q", taskName, block.Kind)
	}
}

// findTaskfiles resolves path into the list of taskfiles to parse.
func findTaskfiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("taskfile path: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".hcl") {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
