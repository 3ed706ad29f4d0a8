// Package pipeline drives the exporter across host rounds: it defers service
// declarations whose symbols are not yet resolvable, and once a round is
// clean it builds, assembles and persists exactly one API stub document.
package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"stubgen/internal/canon"
	"stubgen/internal/collector"
	"stubgen/internal/graph"
	"stubgen/internal/host"
	"stubgen/internal/logger"
	"stubgen/internal/model"
)

// Round is one host invocation. Final marks the last round the host will
// run; declarations still deferred then are dropped.
type Round struct {
	Candidates []host.Service
	Final      bool
}

// Outcome reports what a round did.
type Outcome struct {
	State    State
	Deferred []host.Service // Declarations to resubmit in a later round
	Dropped  []host.Service // Declarations excluded in a final round
	Emitted  bool
	Document *model.ApiStubDocument
	Location string // Where the sink stored the document
}

// Sink persists the assembled document.
type Sink interface {
	Write(ctx context.Context, doc *model.ApiStubDocument) (string, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicies sets the ignore policies used by the projection pass.
func WithPolicies(p graph.Policies) Option {
	return func(pl *Pipeline) { pl.policies = p }
}

// WithLogger sets the logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(pl *Pipeline) { pl.log = l }
}

// Pipeline is the round-control state machine. The emission guard lives for
// the lifetime of the instance; create a new Pipeline to emit again.
type Pipeline struct {
	symbols  host.SymbolTable
	sink     Sink
	policies graph.Policies
	log      *zap.SugaredLogger

	state   State
	round   int
	pending []host.Service
	names   map[string]bool
	emitted bool
}

// New creates a Pipeline reading symbols from symbols and writing to sink.
func New(symbols host.SymbolTable, sink Sink, opts ...Option) *Pipeline {
	p := &Pipeline{
		symbols:  symbols,
		sink:     sink,
		policies: graph.DefaultPolicies(),
		log:      logger.Named("pipeline"),
		names:    make(map[string]bool),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// State returns the state the last round ended in.
func (p *Pipeline) State() State { return p.state }

// Process runs one round.
func (p *Pipeline) Process(ctx context.Context, round Round) (Outcome, error) {
	p.round++
	if p.emitted {
		p.state = StateDone
		p.log.Debugw("already emitted, round ignored", logger.FieldRound, p.round)
		return Outcome{State: StateDone}, nil
	}
	if err := ctx.Err(); err != nil {
		return Outcome{State: p.state}, err
	}

	p.state = StateCollecting
	for _, c := range round.Candidates {
		name := canon.Canonicalize(c.Name())
		if p.names[name] {
			continue
		}
		p.names[name] = true
		p.pending = append(p.pending, c)
	}

	p.state = StateValidating
	var ready, deferred []host.Service
	for _, c := range p.pending {
		if valid(p.symbols, c) {
			ready = append(ready, c)
		} else {
			deferred = append(deferred, c)
		}
	}

	if len(deferred) > 0 && !round.Final {
		p.state = StateDeferredRound
		p.log.Infow("round deferred",
			logger.FieldRound, p.round,
			logger.FieldCount, len(deferred),
		)
		return Outcome{State: StateDeferredRound, Deferred: deferred}, nil
	}
	for _, d := range deferred {
		// Open question: unresolvable declarations are excluded without
		// failing the build; the warning is the only diagnostic.
		p.log.Warnw("dropping unresolvable service",
			logger.FieldService, d.Name(),
			logger.FieldRound, p.round,
		)
	}

	p.state = StateResolving
	doc, err := Resolve(p.symbols, p.policies, ready)
	if err != nil {
		return Outcome{State: p.state}, errors.Wrapf(err, "round %d", p.round)
	}

	p.state = StateEmitting
	location, err := p.sink.Write(ctx, doc)
	if err != nil {
		return Outcome{State: p.state}, errors.Wrapf(err, "round %d: writing document", p.round)
	}

	p.emitted = true
	p.state = StateDone
	p.log.Infow("document emitted",
		logger.FieldRound, p.round,
		logger.FieldFile, location,
		logger.FieldCount, len(doc.Definitions),
	)
	return Outcome{
		State:    StateDone,
		Dropped:  deferred,
		Emitted:  true,
		Document: doc,
		Location: location,
	}, nil
}

// Resolve runs the collector and the graph builder over services and
// assembles the resulting document.
func Resolve(symbols host.SymbolTable, policies graph.Policies, services []host.Service) (*model.ApiStubDocument, error) {
	builder := graph.NewBuilder(symbols, policies)
	coll := collector.New(builder)
	clientServices, err := coll.Collect(services)
	if err != nil {
		return nil, err
	}
	g, err := builder.Build(coll.Roots())
	if err != nil {
		return nil, err
	}
	return Assemble(clientServices, g), nil
}

// Assemble combines collected services with the projected registry.
func Assemble(services []model.ClientService, g *graph.Graph) *model.ApiStubDocument {
	doc := &model.ApiStubDocument{
		Services:    services,
		Definitions: g.Definitions(),
	}
	if doc.Services == nil {
		doc.Services = []model.ClientService{}
	}
	return doc
}
