package main

// Run local files through the pipeline without the HTTP surface:
//   go run ./cmd/ingest resume.pdf other.docx

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"resume-pipeline/internal/pipeline"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: ingest <file> [file...]")
		os.Exit(2)
	}

	var batch []pipeline.File
	for _, path := range os.Args[1:] {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
			os.Exit(1)
		}
		info, err := os.Stat(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "stat %s: %v\n", path, err)
			os.Exit(1)
		}
		batch = append(batch, pipeline.File{
			Name:         filepath.Base(path),
			MimeType:     mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
			Data:         data,
			LastModified: info.ModTime(),
		})
	}

	orch := pipeline.New(pipeline.Options{}, pipeline.Callbacks{
		OnUploadProgress: func(p pipeline.Progress) {
			fmt.Printf("%-30s %-10s %5.1f%%\n", p.FileName, p.Status, p.Progress)
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	results := orch.Process(ctx, batch)

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			fmt.Printf("%s: %s: %s\n", res.FileName, res.Err.Code, res.Err.Message)
			continue
		}
		fmt.Printf("%s: score %d\n", res.FileName, res.Analysis.OverallScore)
		for _, s := range res.Analysis.Suggestions {
			fmt.Printf("  [%s] %s\n", s.Category, s.Text)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}
