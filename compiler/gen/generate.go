package gen

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
)

// Notice is the first header comment of every generated file.
const Notice = "Code generated by repogen. DO NOT EDIT."

// Artifact is one rendered output file.
type Artifact struct {
	// Name is the file name, relative to the target directory.
	Name string
	// Phase is the generator that produced the file.
	Phase string
	// Content holds the formatted source.
	Content []byte
}

// JenniferGenerator renders the repository, the adapter and the entities
// with Jennifer and writes them to the target directory.
//
// Rendering and writing are separate passes: files are only written once
// every artifact rendered, so a failure leaves the previous output intact.
type JenniferGenerator struct {
	graph   *Graph
	workers int
	outDir  string
	pkg     string

	// Dialect generator for database-specific code
	dialect MinimalDialect

	mu      sync.Mutex
	metrics WriterMetrics
}

// NewJenniferGenerator creates a new Jennifer-based generator.
// You must call WithDialect() to set a dialect before calling Generate().
//
// Example:
//
//	import "github.com/syssam/repogen/compiler/gen/sql"
//
//	gen := gen.NewJenniferGenerator(graph, outDir)
//	dialect := sql.NewDialect(gen)
//	gen.WithDialect(dialect)
//	gen.Generate(ctx)
func NewJenniferGenerator(g *Graph, outDir string) *JenniferGenerator {
	workers := runtime.GOMAXPROCS(0)
	if g.Config != nil && g.Workers > 0 {
		workers = g.Workers
	}
	pkg := filepath.Base(outDir)
	if g.Config != nil && g.Package != "" {
		pkg = g.Package
	}
	return &JenniferGenerator{
		graph:   g,
		workers: workers,
		outDir:  outDir,
		pkg:     pkg,
	}
}

// WithWorkers sets the number of parallel workers.
func (g *JenniferGenerator) WithWorkers(n int) *JenniferGenerator {
	if n > 0 {
		g.workers = n
	}
	return g
}

// WithPackage sets the output package name.
func (g *JenniferGenerator) WithPackage(pkg string) *JenniferGenerator {
	if pkg != "" {
		g.pkg = pkg
	}
	return g
}

// WithDialect sets the dialect generator.
func (g *JenniferGenerator) WithDialect(d MinimalDialect) *JenniferGenerator {
	if d != nil {
		g.dialect = d
	}
	return g
}

// Metrics returns the metrics of the last Generate call.
func (g *JenniferGenerator) Metrics() WriterMetrics {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.metrics
}

// renderTask pairs an output file with the function producing it.
type renderTask struct {
	name  string
	phase string
	gen   func() *jen.File
}

func (g *JenniferGenerator) tasks() []renderTask {
	tasks := []renderTask{
		{name: g.graph.Files.Repository, phase: "repository", gen: g.dialect.GenRepository},
		{name: g.graph.Files.Adapter, phase: "adapter", gen: g.dialect.GenAdapter},
	}
	for _, t := range g.graph.Nodes {
		tasks = append(tasks, renderTask{
			name:  t.FileName(),
			phase: "entity",
			gen:   func() *jen.File { return g.dialect.GenEntity(t) },
		})
	}
	return tasks
}

// Render renders all artifacts in memory. The result is ordered as the
// repository, the adapter, then one entity per node in schema order.
func (g *JenniferGenerator) Render(ctx context.Context) ([]Artifact, error) {
	if g.dialect == nil {
		return nil, NewConfigError("Dialect", nil, "no dialect set: call WithDialect() before Render()")
	}
	start := time.Now()
	tasks := g.tasks()
	artifacts := make([]Artifact, len(tasks))

	errg, ctx := errgroup.WithContext(ctx)
	errg.SetLimit(g.workers)
	for i, task := range tasks {
		errg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f := task.gen()
			if f == nil {
				return NewGenerationError(task.phase, task.name, "dialect returned no file", nil)
			}
			var buf bytes.Buffer
			// Jennifer renders with correct imports and formatting
			if err := f.Render(&buf); err != nil {
				return NewGenerationError(task.phase, task.name, "render", err)
			}
			artifacts[i] = Artifact{Name: task.name, Phase: task.phase, Content: buf.Bytes()}
			return nil
		})
	}
	if err := errg.Wait(); err != nil {
		return nil, err
	}

	g.mu.Lock()
	g.metrics.RenderTime = time.Since(start)
	g.mu.Unlock()
	return artifacts, nil
}

// Generate renders all artifacts and writes them to the output directory.
// It returns the paths of the files, in Render order.
func (g *JenniferGenerator) Generate(ctx context.Context) ([]string, error) {
	g.mu.Lock()
	g.metrics = WriterMetrics{}
	g.mu.Unlock()

	artifacts, err := g.Render(ctx)
	if err != nil {
		return nil, err
	}
	return g.write(ctx, artifacts)
}

// =============================================================================
// GeneratorHelper interface implementation
// =============================================================================

// NewFile creates a new Jennifer file with the standard header comment.
func (g *JenniferGenerator) NewFile(pkg string) *jen.File {
	f := jen.NewFile(pkg)
	f.HeaderComment(Notice)
	if g.graph.Config != nil && g.graph.Header != "" {
		f.HeaderComment(g.graph.Header)
	}
	return f
}

// Graph returns the schema graph.
func (g *JenniferGenerator) Graph() *Graph {
	return g.graph
}

// Pkg returns the output package name.
func (g *JenniferGenerator) Pkg() string {
	return g.pkg
}

// Storage returns the storage driver of the graph.
func (g *JenniferGenerator) Storage() *Storage {
	return g.graph.Storage
}

// Ensure JenniferGenerator implements GeneratorHelper.
var _ GeneratorHelper = (*JenniferGenerator)(nil)
