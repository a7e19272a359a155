package gql

import (
	"apk-recon/internal/logger"
	"apk-recon/internal/model"
	"apk-recon/internal/program"
)

// CandidateClass is a class that looks like an operation descriptor, with
// the shape of each of its constructors and the argument sets recovered
// from them.
type CandidateClass struct {
	Class        program.Class
	Shapes       []Shape // one per constructor, declaration order
	ArgumentSets []ArgumentSet
}

// Retained reports whether at least one argument set was recovered.
func (c CandidateClass) Retained() bool { return len(c.ArgumentSets) > 0 }

// Extractor runs the candidate search and the per-shape strategies.
type Extractor struct {
	strategies map[Shape]strategy
}

// NewExtractor returns an Extractor with the built-in strategies.
func NewExtractor() *Extractor {
	return &Extractor{
		strategies: map[Shape]strategy{
			ShapeDataClass:   dataClassStrategy{},
			ShapeNoArg:       noArgStrategy{},
			ShapeLooseString: looseStringStrategy{},
		},
	}
}

// Candidates classifies every constructor of every candidate class and collects
// the argument sets they yield. Sets with an empty id are dropped.
func (e *Extractor) Candidates(m program.Model) ([]CandidateClass, model.Stats) {
	var stats model.Stats

	candidates := FindCandidates(m)
	stats.CandidateClasses = len(candidates)

	out := make([]CandidateClass, 0, len(candidates))
	for _, c := range candidates {
		cand := CandidateClass{Class: c}
		for _, ctor := range c.Methods() {
			if !ctor.IsConstructor() {
				continue
			}
			shape := ClassifyConstructor(ctor)
			cand.Shapes = append(cand.Shapes, shape)
			countShape(&stats, shape)

			s, ok := e.strategies[shape]
			if !ok {
				logger.Debug("Unrecognised constructor %s(%v) in %s", ctor.Name(), ctor.Parameters(), c.Name())
				continue
			}
			for _, set := range s.argumentSets(ctor) {
				if set.IsEmpty() {
					logger.Debug("Dropping argument set with empty id in %s", c.Name())
					continue
				}
				cand.ArgumentSets = append(cand.ArgumentSets, set)
			}
		}
		if cand.Retained() {
			stats.RetainedClasses++
		}
		out = append(out, cand)
	}

	return out, stats
}

// Extract returns the operations of the retained candidates in discovery
// order, without deduplication.
func (e *Extractor) Extract(m program.Model) ([]model.GQLOperation, model.Stats) {
	candidates, stats := e.Candidates(m)

	ops := make([]model.GQLOperation, 0)
	for _, c := range candidates {
		for _, set := range c.ArgumentSets {
			ops = append(ops, model.GQLOperation{ID: set.Arg0, Name: set.Arg1, Definition: set.Arg2})
		}
	}

	logger.Debug("Recovered %d operations from %d of %d candidate classes",
		len(ops), stats.RetainedClasses, stats.CandidateClasses)
	return ops, stats
}

func countShape(stats *model.Stats, shape Shape) {
	switch shape {
	case ShapeDataClass:
		stats.DataClassConstructors++
	case ShapeNoArg:
		stats.NoArgConstructors++
	case ShapeLooseString:
		stats.LooseStringConstructors++
	default:
		stats.UnknownConstructors++
	}
}
