package linker

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"apk-recon/internal/analyzer"
	"apk-recon/internal/javaparser"
	"apk-recon/internal/logger"
	"apk-recon/internal/program"
)

// SourceOptions controls LoadSources.
type SourceOptions struct {
	Workers int
	Exclude func(rel string) bool
	OnFile  func() // called once per parsed file, from worker goroutines
}

// SourceStats counts what LoadSources read.
type SourceStats struct {
	Files      int
	Classes    int
	Failed     int // files that could not be read or parsed at all
	Partial    int // files parsed with syntax errors
	Duplicates int
}

type parsed struct {
	classes []*javaparser.JavaClass
	err     error
}

// LoadSources parses every .java file under root and links them into a
// program model. Files are parsed in parallel; the model keeps the lexical
// file order regardless.
func LoadSources(root string, opts SourceOptions) (*program.Memory, SourceStats, error) {
	var stats SourceStats

	files, err := analyzer.ScanDirectory(root, []string{".java"}, opts.Exclude)
	if err != nil {
		return nil, stats, err
	}
	stats.Files = len(files)
	if len(files) == 0 {
		return nil, stats, fmt.Errorf("%w: no .java files under %s", program.ErrIncompatibleModel, root)
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(files) {
		workers = len(files)
	}

	results := make([]parsed, len(files))
	g := new(errgroup.Group)
	g.SetLimit(workers)
	for i, path := range files {
		g.Go(func() error {
			results[i] = parseFile(path)
			if opts.OnFile != nil {
				opts.OnFile()
			}
			return nil
		})
	}
	_ = g.Wait()

	pool := NewComponentPool()
	for i, r := range results {
		if r.err != nil {
			logger.LogParseError(files[i], r.err, "java source")
			if !errors.Is(r.err, javaparser.ErrSyntax) {
				stats.Failed++
				continue
			}
			stats.Partial++
		}
		for _, jc := range r.classes {
			if !pool.AddJavaClass(jc) {
				stats.Duplicates++
				logger.Debug("Duplicate class %s in %s", jc.FullName(), files[i])
				continue
			}
			stats.Classes++
		}
	}

	if stats.Failed > 0 || stats.Partial > 0 {
		logger.Warn("%d source files failed to parse, %d parsed with errors (details in log file)",
			stats.Failed, stats.Partial)
	}

	return NewLinker(pool).BuildModel(), stats, nil
}

func parseFile(path string) parsed {
	content, err := analyzer.ReadFile(path)
	if err != nil {
		return parsed{err: err}
	}

	p := javaparser.NewParser()
	defer p.Close()

	classes, err := p.Parse(context.Background(), []byte(content))
	return parsed{classes: classes, err: err}
}
