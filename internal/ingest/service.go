// Package ingest drives the full reference-database build: it parses the
// source archives, materializes ancestor closures and cross-entity links,
// and bulk-loads the result into a biota.Store. Stages run in a fixed
// order so that later stages can resolve references against earlier ones.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Constellab/gws-biota-sub001/pkg/biota"
)

// Sources names every input file the build reads. Paths are resolved by
// the caller, typically after staging the archives from a blob store.
type Sources struct {
	ECO   string // ECO ontology, OBO format
	GO    string // Gene Ontology, OBO format
	SBO   string // Systems Biology Ontology, OBO format
	BTO   string // BRENDA Tissue Ontology, JSON export
	ChEBI string // ChEBI ontology, OBO format

	TaxdumpDir string // NCBI taxdump directory (nodes.dmp, names.dmp, division.dmp)

	ReactomePathways  string
	ReactomeRelations string
	ReactomeCompounds string

	Uniprot string // FASTA

	Brenda string // BRENDA flat file
	BKMS   string // BKMS-react TSV

	RheaReactions  string            // Rhea flat file
	RheaDirections string            // rhea-directions table
	RheaXrefs      map[string]string // table name -> path, e.g. "kegg", "ecocyc", "metacyc", "macie", "ec", "reactome"
}

// BatchSizes controls how many rows are buffered before a bulk insert is
// issued inside a transaction.
type BatchSizes struct {
	Edges   int // ancestor edges per insert
	Records int // entity rows per insert
}

const (
	defaultEdgeBatch   = 100
	defaultRecordBatch = 500
)

// Service orchestrates the build against a Store.
type Service struct {
	store   biota.Store
	sources Sources
	batch   BatchSizes
	log     Logger
	metrics MetricsRecorder
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger the build reports progress to.
func WithLogger(l Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetrics sets the metrics recorder stage outcomes are reported to.
func WithMetrics(m MetricsRecorder) Option {
	return func(s *Service) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithBatchSizes overrides the insert batch sizes. Zero fields keep
// their defaults.
func WithBatchSizes(b BatchSizes) Option {
	return func(s *Service) {
		if b.Edges > 0 {
			s.batch.Edges = b.Edges
		}
		if b.Records > 0 {
			s.batch.Records = b.Records
		}
	}
}

// WithClock overrides the time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a Service loading from sources into store.
func NewService(store biota.Store, sources Sources, opts ...Option) *Service {
	s := &Service{
		store:   store,
		sources: sources,
		batch:   BatchSizes{Edges: defaultEdgeBatch, Records: defaultRecordBatch},
		log:     noopLogger{},
		metrics: noopMetrics{},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// stage pairs an entity kind with its loader for the build sequence.
type stage struct {
	kind biota.EntityKind
	run  func(context.Context, biota.BuildContext) error
}

func (s *Service) stages() []stage {
	return []stage{
		{biota.EntityECO, s.LoadECO},
		{biota.EntityGO, s.LoadGO},
		{biota.EntitySBO, s.LoadSBO},
		{biota.EntityBTO, s.LoadBTO},
		{biota.EntityCompound, s.LoadCompounds},
		{biota.EntityPathway, s.LoadPathways},
		{biota.EntityTaxon, s.LoadTaxonomy},
		{biota.EntityProtein, s.LoadProteins},
		{biota.EntityEnzyme, s.LoadEnzymes},
		{biota.EntityReaction, s.LoadReactions},
	}
}

// Build runs every stage in order and records a manifest when all of
// them succeed. A failed stage aborts the build; earlier stages keep
// their committed data.
func (s *Service) Build(ctx context.Context, bc biota.BuildContext) (biota.Manifest, error) {
	manifest := biota.Manifest{
		RunID:     uuid.NewString(),
		StartedAt: s.now().UTC(),
	}
	s.log.Infof("build %s starting", manifest.RunID)
	for _, st := range s.stages() {
		if err := s.runStage(ctx, bc, st.kind, st.run); err != nil {
			return biota.Manifest{}, fmt.Errorf("stage %s: %w", st.kind, err)
		}
	}
	counts, err := s.store.Counts(ctx, biota.EntityKinds()...)
	if err != nil {
		return biota.Manifest{}, fmt.Errorf("count loaded entities: %w", err)
	}
	manifest.FinishedAt = s.now().UTC()
	manifest.Counts = counts
	if err := s.store.PutManifest(ctx, manifest); err != nil {
		return biota.Manifest{}, fmt.Errorf("record manifest: %w", err)
	}
	s.log.Infof("build %s finished in %s", manifest.RunID, manifest.FinishedAt.Sub(manifest.StartedAt))
	return manifest, nil
}

func (s *Service) runStage(ctx context.Context, bc biota.BuildContext, kind biota.EntityKind, run func(context.Context, biota.BuildContext) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !bc.AllowWrite {
		return biota.ErrWriteProtected{Stage: kind}
	}
	start := s.now()
	err := run(ctx, bc)
	s.metrics.ObserveStage(string(kind), err == nil, s.now().Sub(start))
	if err != nil {
		return err
	}
	s.log.Infof("stage %s loaded in %s", kind, s.now().Sub(start))
	return nil
}

// requireLoaded enforces a stage precondition: every listed kind must
// already hold at least one row.
func (s *Service) requireLoaded(ctx context.Context, stage biota.EntityKind, kinds ...biota.EntityKind) error {
	counts, err := s.store.Counts(ctx, kinds...)
	if err != nil {
		return fmt.Errorf("check %s preconditions: %w", stage, err)
	}
	for _, kind := range kinds {
		if counts[kind] == 0 {
			return biota.ErrStageUnready{Stage: stage, Requires: kind}
		}
	}
	return nil
}

// insertChunked feeds items to insert in slices of at most size rows.
func insertChunked[T any](items []T, size int, insert func([]T) error) error {
	if size <= 0 {
		size = defaultRecordBatch
	}
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		if err := insert(items[start:end]); err != nil {
			return err
		}
	}
	return nil
}
