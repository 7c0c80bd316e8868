package service

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"casedocs/internal/classifier"
	"casedocs/internal/model"
	"casedocs/internal/repository"
	"casedocs/internal/storage"
)

// ClassifyOutcome is the per-document result of a classification batch.
// Outcomes keep the order of the input ids regardless of completion order.
type ClassifyOutcome struct {
	DocumentID     string
	Classification model.Classification
	Err            error
}

// Orchestrator drives classification to completion for a batch of document
// ids. Per-document attempts run concurrently and are isolated from each
// other: one document's classifier timeout or error never cancels or delays
// the others. A failed attempt is still written back as an explicit failure
// marker so readers can tell "pending" from "attempted and failed".
type Orchestrator interface {
	ClassifyBatch(ctx context.Context, ids []string) []ClassifyOutcome
}

type orchestrator struct {
	repo        repository.DocumentRepository
	store       storage.Storage
	classifier  classifier.Classifier
	maxAttempts int
	outcomes    *prometheus.CounterVec
}

// NewOrchestrator constructs the classification orchestrator. maxAttempts is
// the explicit per-document attempt budget; 1 means no retry. reg may be nil
// to skip outcome metrics.
func NewOrchestrator(
	repo repository.DocumentRepository,
	store storage.Storage,
	cls classifier.Classifier,
	maxAttempts int,
	reg prometheus.Registerer,
) Orchestrator {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	o := &orchestrator{
		repo:        repo,
		store:       store,
		classifier:  cls,
		maxAttempts: maxAttempts,
	}
	if reg != nil {
		o.outcomes = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "classification_outcomes_total",
				Help: "Total number of per-document classification outcomes.",
			},
			[]string{"outcome"},
		)
		reg.MustRegister(o.outcomes)
	}
	return o
}

// ClassifyBatch classifies every id concurrently and returns one outcome per
// id, in input order. It never returns an error: every failure is carried in
// the outcome for its document.
func (o *orchestrator) ClassifyBatch(ctx context.Context, ids []string) []ClassifyOutcome {
	outcomes := make([]ClassifyOutcome, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			outcomes[i] = o.classifyOne(ctx, id)
		}(i, id)
	}
	wg.Wait()

	return outcomes
}

func (o *orchestrator) classifyOne(ctx context.Context, id string) ClassifyOutcome {
	out := ClassifyOutcome{DocumentID: id}

	doc, err := o.repo.FindByID(ctx, id)
	if err != nil {
		out.Err = fmt.Errorf("find document: %w", err)
		o.count("error")
		return out
	}

	content, err := o.readContent(ctx, doc.StoragePath)
	if err != nil {
		out.Err = fmt.Errorf("read content: %w", err)
		o.count("error")
		return out
	}

	result, err := o.classifyWithBudget(ctx, doc, content)
	if err != nil {
		// Attempted and failed: record the explicit failure marker so the
		// document does not read as still pending.
		out.Classification = model.Failed(err.Error())
		out.Err = err
		o.count("failed")
	} else {
		out.Classification = model.Completed(result.Categories, result.ImportantTerms)
		o.count("completed")
	}

	if updErr := o.repo.UpdateClassification(ctx, id, out.Classification); updErr != nil {
		out.Err = fmt.Errorf("update classification: %w", updErr)
		o.count("error")
	}
	return out
}

func (o *orchestrator) classifyWithBudget(ctx context.Context, doc *model.Document, content []byte) (*classifier.Result, error) {
	var lastErr error
	for attempt := 1; attempt <= o.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return nil, lastErr
			}
			return nil, err
		}
		result, err := o.classifier.Classify(ctx, doc.Name, doc.Format, content)
		if err == nil {
			return result, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func (o *orchestrator) readContent(ctx context.Context, key string) ([]byte, error) {
	rc, _, err := o.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (o *orchestrator) count(outcome string) {
	if o.outcomes != nil {
		o.outcomes.WithLabelValues(outcome).Inc()
	}
}
