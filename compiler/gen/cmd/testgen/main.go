// testgen renders the sample document schema into a temporary directory.
// Run: go run ./compiler/gen/cmd/testgen [dialect]
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/gen/sql"
	"github.com/syssam/repogen/compiler/load"
)

const schema = `
CREATE TABLE document (
	id varchar(36) PRIMARY KEY,
	name varchar NOT NULL,
	url varchar,
	status varchar
);

CREATE TABLE clause (
	id varchar(36),
	documentId varchar(36),
	section varchar,
	subsection varchar,
	content text,
	CONSTRAINT fk_document FOREIGN KEY (documentId) REFERENCES document(id)
);
`

func main() {
	dialect := "postgres"
	if len(os.Args) > 1 {
		dialect = os.Args[1]
	}

	outDir, err := os.MkdirTemp("", "repogen-testgen-*")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create temp dir: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Output directory: %s\n", outDir)

	res, err := load.Parse([]byte(schema))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse schema: %v\n", err)
		os.Exit(1)
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "skipped: %s\n", d)
	}

	config, err := gen.NewConfig(
		gen.WithTarget(outDir),
		gen.WithPackage("store"),
		gen.WithDialect(dialect),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create config: %v\n", err)
		os.Exit(1)
	}

	graph, err := gen.NewGraph(config, res.Tables...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create graph: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generating %s adapter...\n", graph.Storage)
	paths, err := sql.Generate(context.Background(), graph)
	if err != nil {
		fmt.Fprintf(os.Stderr, "generation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("\nGenerated files:")
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to stat %s: %v\n", p, err)
			continue
		}
		fmt.Printf("  %s (%d bytes)\n", filepath.Base(p), info.Size())
	}

	fmt.Println("\n--- Sample: document.go ---")
	if content, err := os.ReadFile(filepath.Join(outDir, "document.go")); err == nil {
		fmt.Print(string(content))
	}
	fmt.Println("To verify compilation: cd " + outDir + " && go mod init store && go get github.com/google/uuid && go vet ./...")
}
