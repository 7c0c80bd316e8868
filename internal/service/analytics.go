package service

import (
	"context"

	"casedocs/internal/model"
	"casedocs/internal/repository"
)

// Presentation fallbacks for documents without a completed classification.
// These are rendered on read only and never stored as categories.
const (
	LabelNotClassified        = "Not Classified Yet"
	LabelClassificationFailed = "Classification Failed"
)

// CaseTypeCount is the aggregated count for one category label.
type CaseTypeCount struct {
	CaseType string `json:"caseType"`
	Count    int    `json:"count"`
}

// ActivityEntry is one row of the recent-activity view: the document name
// and its primary classification label (or a fallback sentinel).
type ActivityEntry struct {
	Name                 string `json:"name"`
	ClassificationResult string `json:"classificationResult"`
}

// AnalyticsService derives aggregate views from the persisted corpus on
// read; nothing is materialized.
type AnalyticsService interface {
	// CaseTypeCounts counts every category label across all completed
	// classifications. A document naming two categories contributes to both
	// counts; pending and failed documents contribute nothing.
	CaseTypeCounts(ctx context.Context) ([]CaseTypeCount, error)

	// RecentActivity returns the most recently uploaded documents, newest
	// first, capped at the configured limit.
	RecentActivity(ctx context.Context) ([]ActivityEntry, error)

	// Trends returns day-bucketed upload counts, ascending by date.
	Trends(ctx context.Context) ([]repository.DayCount, error)
}

type analyticsService struct {
	repo        repository.DocumentRepository
	recentLimit int
}

// NewAnalyticsService constructs the analytics engine. recentLimit caps the
// recent-activity view.
func NewAnalyticsService(repo repository.DocumentRepository, recentLimit int) AnalyticsService {
	if recentLimit <= 0 {
		recentLimit = 10
	}
	return &analyticsService{repo: repo, recentLimit: recentLimit}
}

func (s *analyticsService) CaseTypeCounts(ctx context.Context) ([]CaseTypeCount, error) {
	docs, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	order := make([]string, 0)
	for _, d := range docs {
		if d.Classification.Status != model.StatusCompleted {
			continue
		}
		for _, category := range d.Classification.Categories {
			if _, seen := counts[category]; !seen {
				order = append(order, category)
			}
			counts[category]++
		}
	}

	out := make([]CaseTypeCount, 0, len(order))
	for _, category := range order {
		out = append(out, CaseTypeCount{CaseType: category, Count: counts[category]})
	}
	return out, nil
}

func (s *analyticsService) RecentActivity(ctx context.Context) ([]ActivityEntry, error) {
	docs, err := s.repo.Recent(ctx, s.recentLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]ActivityEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, ActivityEntry{
			Name:                 d.Name,
			ClassificationResult: displayLabel(d.Classification),
		})
	}
	return entries, nil
}

func (s *analyticsService) Trends(ctx context.Context) ([]repository.DayCount, error) {
	return s.repo.CountByDay(ctx)
}

// displayLabel maps a classification to its one-line display form.
func displayLabel(c model.Classification) string {
	switch c.Status {
	case model.StatusCompleted:
		return c.PrimaryCategory()
	case model.StatusFailed:
		return LabelClassificationFailed
	default:
		return LabelNotClassified
	}
}
