package source

import (
	"context"
	"time"

	"newsagent/internal/domain/entity"
)

// Static serves a fixed candidate set. Used in development and as the
// content source of last resort.
type Static struct {
	items []entity.CandidateItem
}

// NewStatic creates a static source. Nil items means the built-in fixture.
func NewStatic(items []entity.CandidateItem) *Static {
	if items == nil {
		items = FixtureItems()
	}
	return &Static{items: items}
}

// Fetch returns a copy of the static candidate set.
func (s *Static) Fetch(context.Context) ([]entity.CandidateItem, error) {
	out := make([]entity.CandidateItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

// FixtureItems returns the static candidate set served when every upstream
// source is unavailable. The set spans all categories so diversity selection
// still has material to work with.
func FixtureItems() []entity.CandidateItem {
	now := time.Now()
	return []entity.CandidateItem{
		{
			ID:          "fixture-001",
			Title:       "Frontier model releases reshape the AI landscape",
			Summary:     "A new generation of large language models raises the bar for reasoning benchmarks.",
			Category:    entity.CategoryAIML,
			Source:      "fixture",
			Popularity:  0.9,
			PublishedAt: now.Add(-2 * time.Hour),
		},
		{
			ID:          "fixture-002",
			Title:       "Seed rounds rebound as venture funding stabilizes",
			Summary:     "Early-stage startup investment recovers after two slow quarters.",
			Category:    entity.CategoryStartupVenture,
			Source:      "fixture",
			Popularity:  0.7,
			PublishedAt: now.Add(-5 * time.Hour),
		},
		{
			ID:          "fixture-003",
			Title:       "Ethereum upgrade cuts settlement costs",
			Summary:     "The latest protocol fork reduces gas fees for smart contract execution.",
			Category:    entity.CategoryWeb3Crypto,
			Source:      "fixture",
			Popularity:  0.6,
			PublishedAt: now.Add(-8 * time.Hour),
		},
		{
			ID:          "fixture-004",
			Title:       "Go 1.25 ships with faster garbage collection",
			Summary:     "The new runtime release trims tail latency for server workloads.",
			Category:    entity.CategoryProgramming,
			Source:      "fixture",
			Popularity:  0.8,
			PublishedAt: now.Add(-3 * time.Hour),
		},
		{
			ID:          "fixture-005",
			Title:       "Next-gen GPU architecture doubles inference throughput",
			Summary:     "New accelerator silicon targets datacenter AI workloads.",
			Category:    entity.CategoryHardwareChips,
			Source:      "fixture",
			Popularity:  0.8,
			PublishedAt: now.Add(-12 * time.Hour),
		},
		{
			ID:          "fixture-006",
			Title:       "Foldable phones finally go mainstream",
			Summary:     "Shipment numbers show foldable form factors crossing into mass market.",
			Category:    entity.CategoryConsumerTech,
			Source:      "fixture",
			Popularity:  0.5,
			PublishedAt: now.Add(-20 * time.Hour),
		},
		{
			ID:          "fixture-007",
			Title:       "Enterprise SaaS consolidation accelerates",
			Summary:     "Platform vendors absorb point solutions as IT budgets tighten.",
			Category:    entity.CategoryEnterpriseSaaS,
			Source:      "fixture",
			Popularity:  0.5,
			PublishedAt: now.Add(-26 * time.Hour),
		},
		{
			ID:          "fixture-008",
			Title:       "Creator platforms test revenue sharing changes",
			Summary:     "Major social networks adjust monetization for short-form video.",
			Category:    entity.CategorySocialMedia,
			Source:      "fixture",
			Popularity:  0.4,
			PublishedAt: now.Add(-30 * time.Hour),
		},
	}
}
