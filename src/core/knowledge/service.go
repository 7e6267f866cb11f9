package knowledge

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"maarifa/src/core/embedding"
	"maarifa/src/core/textnorm"
	"maarifa/src/log"
	"maarifa/src/storage/keywordindex"
	"maarifa/src/storage/vectorindex"
)

// Embedder is the slice of the embedding provider the service needs. The
// degraded flag reports lexical-fallback vectors so scoring can penalize
// them.
type Embedder interface {
	Embed(ctx context.Context, text string, lang textnorm.Language) (embedding.Vector, bool, error)
	Dimension() int
}

// Config carries the tunables of the retrieval engine.
type Config struct {
	// MinSimilarity discards embedding hits below this raw cosine score.
	MinSimilarity float64
	// MaxResults is the default and maximum result count per search.
	MaxResults int
	// DegradedPenalty multiplies embedding scores produced in degraded mode.
	DegradedPenalty float64
	// SuggestLimit caps autocomplete suggestions.
	SuggestLimit int
	// SnapshotDir is where the vector index persists; empty disables
	// persistence.
	SnapshotDir string
}

const (
	defaultMinSimilarity   = 0.7
	defaultMaxResults      = 10
	defaultDegradedPenalty = 0.5
	defaultSuggestLimit    = 10
	minSuggestLength       = 3
)

func (c *Config) applyDefaults() {
	if c.MinSimilarity == 0 {
		c.MinSimilarity = defaultMinSimilarity
	}
	if c.MaxResults <= 0 {
		c.MaxResults = defaultMaxResults
	}
	if c.DegradedPenalty == 0 {
		c.DegradedPenalty = defaultDegradedPenalty
	}
	if c.SuggestLimit <= 0 {
		c.SuggestLimit = defaultSuggestLimit
	}
}

// indexSnapshot bundles everything one search needs: the hydration map, a
// deterministic scan order, per-record question tokens and both indexes.
// Snapshots are immutable; writers build a new one and swap the pointer, so
// a reader never observes a half-rebuilt index.
type indexSnapshot struct {
	records  map[string]Record
	order    []string
	tokens   map[string][]string
	keywords *keywordindex.Index
	vectors  *vectorindex.Index
}

func (snap *indexSnapshot) clone() *indexSnapshot {
	records := make(map[string]Record, len(snap.records))
	for id, rec := range snap.records {
		records[id] = rec
	}
	tokens := make(map[string][]string, len(snap.tokens))
	for id, toks := range snap.tokens {
		tokens[id] = toks
	}
	return &indexSnapshot{
		records:  records,
		order:    append([]string(nil), snap.order...),
		tokens:   tokens,
		keywords: snap.keywords.Clone(),
		vectors:  snap.vectors.Clone(),
	}
}

// Service owns the index lifecycle and answers searches. It implements
// SearchService, IndexService and SystemService.
type Service struct {
	corpus   Corpus
	embedder Embedder
	cfg      Config

	snapshot atomic.Pointer[indexSnapshot]
	state    atomic.Int32
	writeMu  sync.Mutex

	progress func(done, total int)
}

// Option configures a Service.
type Option func(*Service)

// WithRebuildProgress installs a callback invoked after each record is
// embedded during a full rebuild.
func WithRebuildProgress(fn func(done, total int)) Option {
	return func(s *Service) {
		s.progress = fn
	}
}

// NewService wires the retrieval engine. Both collaborators are required;
// the embedder may itself run in permanent degraded mode.
func NewService(corpus Corpus, embedder Embedder, cfg Config, opts ...Option) (*Service, error) {
	if corpus == nil {
		return nil, fmt.Errorf("corpus is required")
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder is required")
	}
	cfg.applyDefaults()

	s := &Service{
		corpus:   corpus,
		embedder: embedder,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// State returns the current index lifecycle state.
func (s *Service) State() IndexState {
	return IndexState(s.state.Load())
}

// Search runs all retrieval strategies concurrently, fuses their candidates
// and returns a ranked, deduplicated result list. A failing strategy is
// logged and skipped; the call itself only errors when every strategy
// failed. The response is always well-formed, possibly with zero results.
func (s *Service) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	limit := req.Limit
	if limit <= 0 || limit > s.cfg.MaxResults {
		limit = s.cfg.MaxResults
	}

	lang := req.Language
	if lang == "" || lang == textnorm.LanguageAuto {
		lang = textnorm.DetectLanguage(req.Query)
	}

	resp := &SearchResponse{
		Query:       req.Query,
		Language:    lang,
		Results:     []ScoredRecord{},
		MethodsUsed: []string{},
	}

	snap := s.snapshot.Load()
	if snap == nil {
		// Index not built yet: rebuild synchronously before serving.
		if err := s.Rebuild(ctx, false); err != nil {
			return nil, fmt.Errorf("index unavailable and rebuild failed: %w", err)
		}
		snap = s.snapshot.Load()
	}
	if snap == nil || len(snap.order) == 0 {
		log.Info("search against empty corpus", "query", req.Query)
		return resp, nil
	}

	qdoc := textnorm.Normalize(req.Query, lang)

	var (
		mu         sync.Mutex
		candidates []candidate
		degraded   bool
		failed     int
	)

	type strategy struct {
		name string
		run  func(ctx context.Context) ([]candidate, error)
	}
	strategies := []strategy{
		{MethodKeyword, func(context.Context) ([]candidate, error) {
			return s.searchKeyword(snap, qdoc), nil
		}},
		{MethodFulltext, func(context.Context) ([]candidate, error) {
			return s.searchFulltext(snap, req.Query), nil
		}},
	}
	if req.UseEmbeddings {
		strategies = append(strategies, strategy{MethodEmbedding, func(ctx context.Context) ([]candidate, error) {
			cands, wasDegraded, err := s.searchEmbedding(ctx, snap, req.Query, lang, limit)
			if err != nil {
				return nil, err
			}
			mu.Lock()
			degraded = degraded || wasDegraded
			mu.Unlock()
			return cands, nil
		}})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, st := range strategies {
		g.Go(func() error {
			cands, err := st.run(gctx)
			if err != nil {
				// A failing strategy is isolated: the others still serve.
				log.Error(err, "retrieval strategy failed", "strategy", st.name, "query", req.Query)
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			candidates = append(candidates, cands...)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if failed == len(strategies) {
		return nil, fmt.Errorf("query %q: %w", req.Query, ErrSearchFailed)
	}

	filtered := candidates[:0]
	records := s.hydrate(ctx, snap, candidates)
	for _, c := range candidates {
		rec, ok := records[c.recordID]
		if !ok || !passesFilters(rec, req.Filters) {
			continue
		}
		filtered = append(filtered, c)
	}

	queryWords := len(strings.Fields(req.Query))
	resp.Results = fuse(filtered, records, queryWords, limit)
	resp.TotalResults = len(resp.Results)
	resp.MethodsUsed = methodsUsed(resp.Results)
	resp.Degraded = degraded

	return resp, nil
}

// hydrate resolves candidate ids to records, falling back to the corpus for
// ids a persisted vector index knows but the in-memory snapshot does not.
func (s *Service) hydrate(ctx context.Context, snap *indexSnapshot, candidates []candidate) map[string]Record {
	records := make(map[string]Record, len(candidates))
	for _, c := range candidates {
		if _, ok := records[c.recordID]; ok {
			continue
		}
		if rec, ok := snap.records[c.recordID]; ok {
			records[c.recordID] = rec
			continue
		}
		rec, err := s.corpus.GetRecord(ctx, c.recordID)
		if err != nil {
			log.Error(err, "failed to hydrate record", "recordID", c.recordID)
			continue
		}
		if rec == nil {
			log.Debug("stale index entry, record gone from corpus", "recordID", c.recordID)
			continue
		}
		records[c.recordID] = *rec
	}
	return records
}

func passesFilters(rec Record, f SearchFilters) bool {
	if f.Category != "" && !strings.EqualFold(rec.Category, f.Category) {
		return false
	}
	if f.Scholar != "" && !strings.Contains(strings.ToLower(rec.ScholarName), strings.ToLower(f.Scholar)) {
		return false
	}
	if f.Source != "" && !strings.Contains(strings.ToLower(rec.SourceName), strings.ToLower(f.Source)) {
		return false
	}
	if f.MinConfidence > 0 && rec.ConfidenceScore < f.MinConfidence {
		return false
	}
	return true
}

func methodsUsed(results []ScoredRecord) []string {
	seen := make(map[string]struct{})
	var methods []string
	for _, r := range results {
		for _, m := range r.Methods {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			methods = append(methods, m)
		}
	}
	if methods == nil {
		methods = []string{}
	}
	return methods
}

// Rebuild reconstructs both indexes from the corpus. With force false a
// valid persisted vector index is loaded instead of re-embedding; force true
// always recomputes. Readers keep serving the previous snapshot until the
// new one is swapped in atomically.
func (s *Service) Rebuild(ctx context.Context, force bool) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	prev := s.state.Load()
	s.state.Store(int32(StateBuilding))
	restore := func() { s.state.Store(prev) }

	records, err := s.corpus.ListAllRecords(ctx)
	if err != nil {
		restore()
		return fmt.Errorf("failed to list corpus records: %w", err)
	}

	valid := make([]Record, 0, len(records))
	for _, rec := range records {
		if err := rec.Validate(); err != nil {
			log.Info("skipping invalid record", "recordID", rec.ID, "reason", err.Error())
			continue
		}
		valid = append(valid, rec)
	}

	snap := &indexSnapshot{
		records:  make(map[string]Record, len(valid)),
		order:    make([]string, 0, len(valid)),
		tokens:   make(map[string][]string, len(valid)),
		keywords: keywordindex.New(),
	}
	for _, rec := range valid {
		doc := textnorm.NormalizeRecord(rec.ID, rec.QuestionText, rec.ResolvedLanguage())
		snap.records[rec.ID] = rec
		snap.order = append(snap.order, rec.ID)
		snap.tokens[rec.ID] = doc.Tokens
		snap.keywords.Add(rec.ID, doc.Tokens)
	}

	if len(valid) == 0 {
		log.Info("corpus is empty, installing empty index")
		snap.vectors = vectorindex.New(s.embedder.Dimension())
		s.snapshot.Store(snap)
		s.state.Store(int32(StateReady))
		return nil
	}

	if !force && s.cfg.SnapshotDir != "" {
		idx, err := vectorindex.LoadSnapshot(s.cfg.SnapshotDir)
		switch {
		case err == nil && idx.Dimension() == s.embedder.Dimension():
			log.Info("loaded persisted vector index", "vectors", idx.Len())
			snap.vectors = idx
		case err == nil:
			log.Info("persisted vector index has wrong dimension, re-embedding",
				"got", idx.Dimension(), "want", s.embedder.Dimension())
		case errors.Is(err, vectorindex.ErrSnapshotMissing):
			// First run; nothing to load.
		default:
			log.Error(err, "persisted vector index rejected, re-embedding from corpus")
		}
	}

	if snap.vectors == nil {
		idx, err := s.embedCorpus(ctx, valid)
		if err != nil {
			restore()
			return err
		}
		snap.vectors = idx
		if s.cfg.SnapshotDir != "" {
			if err := idx.SaveSnapshot(s.cfg.SnapshotDir); err != nil {
				log.Error(err, "failed to persist vector index", "dir", s.cfg.SnapshotDir)
			}
		}
	}

	s.snapshot.Store(snap)
	s.state.Store(int32(StateReady))
	log.Info("index rebuilt", "records", len(valid), "vectors", snap.vectors.Len(),
		"tokens", snap.keywords.TokenCount())
	return nil
}

func (s *Service) embedCorpus(ctx context.Context, records []Record) (*vectorindex.Index, error) {
	idx := vectorindex.New(s.embedder.Dimension())
	degradedCount := 0

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("rebuild canceled: %w", err)
		}

		vec, degraded, err := s.embedder.Embed(ctx, rec.QuestionText, rec.ResolvedLanguage())
		if err != nil {
			log.Error(err, "failed to embed record, leaving it out of the vector index",
				"recordID", rec.ID)
			continue
		}
		if degraded {
			degradedCount++
		}
		if err := idx.Add(rec.ID, vec); err != nil {
			log.Error(err, "failed to index record vector", "recordID", rec.ID)
			continue
		}

		if s.progress != nil {
			s.progress(i+1, len(records))
		}
		if (i+1)%100 == 0 {
			log.Info("embedding corpus", "done", i+1, "total", len(records))
		}
	}

	if degradedCount > 0 {
		log.Info("vector index contains degraded embeddings", "degraded", degradedCount,
			"total", idx.Len())
	}
	return idx, nil
}

// Upsert adds or replaces a single record in the live snapshot. It is
// best-effort: a full Rebuild remains the source of truth for consistency,
// and replacing an existing record leaves its old vector behind until the
// next rebuild (fusion deduplicates by record id, so searches stay correct).
func (s *Service) Upsert(ctx context.Context, record Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	base := s.snapshot.Load()
	var next *indexSnapshot
	if base == nil {
		next = &indexSnapshot{
			records:  make(map[string]Record),
			tokens:   make(map[string][]string),
			keywords: keywordindex.New(),
			vectors:  vectorindex.New(s.embedder.Dimension()),
		}
	} else {
		next = base.clone()
	}

	doc := textnorm.NormalizeRecord(record.ID, record.QuestionText, record.ResolvedLanguage())
	if _, exists := next.records[record.ID]; !exists {
		next.order = append(next.order, record.ID)
	}
	next.records[record.ID] = record
	next.tokens[record.ID] = doc.Tokens
	next.keywords.Add(record.ID, doc.Tokens)

	vec, degraded, err := s.embedder.Embed(ctx, record.QuestionText, record.ResolvedLanguage())
	if err != nil {
		log.Error(err, "failed to embed upserted record, keyword and fulltext only",
			"recordID", record.ID)
	} else {
		if degraded {
			log.Info("upserted record embedded in degraded mode", "recordID", record.ID)
		}
		if err := next.vectors.Add(record.ID, vec); err != nil {
			return fmt.Errorf("failed to index record vector: %w", err)
		}
	}

	s.snapshot.Store(next)
	s.state.Store(int32(StateReady))

	if s.cfg.SnapshotDir != "" {
		if err := next.vectors.SaveSnapshot(s.cfg.SnapshotDir); err != nil {
			log.Error(err, "failed to persist vector index after upsert")
		}
	}
	return nil
}

// CheckHealth reports index lifecycle state and corpus reachability.
func (s *Service) CheckHealth(ctx context.Context) (*HealthStatus, error) {
	health := &HealthStatus{
		IndexState: s.State().String(),
	}

	snap := s.snapshot.Load()
	if snap != nil {
		health.Records = len(snap.order)
		health.Components.Index = StatusUp
	} else {
		health.Components.Index = StatusDown
	}

	if _, err := s.corpus.GetRecord(ctx, "health-probe"); err != nil && !errors.Is(err, ErrRecordNotFound) {
		health.Components.Corpus = StatusDown
	} else {
		health.Components.Corpus = StatusUp
	}

	if health.Components.Index == StatusUp && health.Components.Corpus == StatusUp {
		health.Status = "ok"
	} else {
		health.Status = "degraded"
	}
	return health, nil
}
