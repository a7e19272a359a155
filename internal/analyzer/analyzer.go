package analyzer

import (
	"fmt"

	"apk-recon/internal/gql"
	"apk-recon/internal/logger"
	"apk-recon/internal/model"
	"apk-recon/internal/oauth"
	"apk-recon/internal/program"
	"apk-recon/internal/xmlparser"
)

// Input is everything one analysis reads.
type Input struct {
	Model     program.Model
	Documents []*xmlparser.Document
}

// Step names, in run order.
const (
	StepOperations = "gql-operations"
	StepClientID   = "oauth-client-id"
)

// Step is one pass over the input producing a part of the result.
type Step[T any] interface {
	Name() string
	Perform(in *Input) (T, error)
}

// Outcome is the result of a run plus the statistics gathered on the way.
type Outcome struct {
	Result *model.AnalysisResult
	Stats  model.Stats
}

// Config holds the analyzer settings.
type Config struct {
	OAuthKey string
	OnStep   func(step string) // called before each step starts
}

// Analyzer runs the operation step, then the client id step.
type Analyzer struct {
	operations *operationsStep
	clientID   *clientIDStep
	onStep     func(step string)
}

// New builds an Analyzer.
func New(cfg Config) *Analyzer {
	return &Analyzer{
		operations: &operationsStep{extractor: gql.NewExtractor()},
		clientID:   &clientIDStep{scanner: oauth.NewScanner(cfg.OAuthKey)},
		onStep:     cfg.OnStep,
	}
}

// Analyze runs both steps. A failing step fails the whole analysis and no
// partial result is returned.
func (a *Analyzer) Analyze(in *Input) (*Outcome, error) {
	ops, err := perform[operations](a.operations, in, a.onStep)
	if err != nil {
		return nil, err
	}

	id, err := perform[clientID](a.clientID, in, a.onStep)
	if err != nil {
		return nil, err
	}

	stats := ops.stats
	stats.DocumentsScanned = len(in.Documents)
	stats.ClientIDValues = id.distinct

	return &Outcome{
		Result: model.NewAnalysisResult(ops.list, id.value),
		Stats:  stats,
	}, nil
}

func perform[T any](s Step[T], in *Input, onStep func(string)) (T, error) {
	logger.Debug("Running step %s", s.Name())
	if onStep != nil {
		onStep(s.Name())
	}
	out, err := s.Perform(in)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("%s: %w", s.Name(), err)
	}
	return out, nil
}

type operations struct {
	list  []model.GQLOperation
	stats model.Stats
}

type operationsStep struct {
	extractor *gql.Extractor
}

func (s *operationsStep) Name() string { return StepOperations }

func (s *operationsStep) Perform(in *Input) (operations, error) {
	if in.Model == nil {
		return operations{}, fmt.Errorf("%w: no program model", program.ErrIncompatibleModel)
	}
	list, stats := s.extractor.Extract(in.Model)
	logger.Info("Recovered %d GraphQL operations", len(list))
	return operations{list: list, stats: stats}, nil
}

type clientID struct {
	value    string
	distinct int
}

type clientIDStep struct {
	scanner *oauth.Scanner
}

func (s *clientIDStep) Name() string { return StepClientID }

func (s *clientIDStep) Perform(in *Input) (clientID, error) {
	value, distinct, err := s.scanner.ScanAll(in.Documents)
	if err != nil {
		return clientID{}, err
	}
	return clientID{value: value, distinct: distinct}, nil
}
