// Package optimizer suggests security, cost, performance and reliability
// improvements for a model graph. Suggestions never block synthesis; the
// model validator owns hard errors.
package optimizer

import (
	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/model"
)

// Categories.
const (
	CategoryAll         = "all"
	CategorySecurity    = "security"
	CategoryCost        = "cost"
	CategoryPerformance = "performance"
	CategoryReliability = "reliability"
)

// Severities.
const (
	SeverityHigh   = "high"
	SeverityMedium = "medium"
	SeverityLow    = "low"
)

// Categories lists the filterable categories in report order.
var Categories = []string{CategorySecurity, CategoryCost, CategoryPerformance, CategoryReliability}

// ValidCategory reports whether c is a category or CategoryAll.
func ValidCategory(c string) bool {
	if c == CategoryAll {
		return true
	}
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Options configures the optimizer.
type Options struct {
	// Category filters suggestions. Empty means CategoryAll.
	Category string
}

// Result contains optimization suggestions.
type Result struct {
	Suggestions []simpleeks.OptimizeSuggestion
	Summary     simpleeks.OptimizeSummary
	// Declarations is the number of graph nodes analyzed.
	Declarations int
}

// Optimize applies every rule of the selected category to the graphs.
func Optimize(graphs []*model.Graph, opts Options) *Result {
	category := opts.Category
	if category == "" {
		category = CategoryAll
	}

	result := &Result{}
	for _, g := range graphs {
		result.Declarations += len(g.Nodes())
		for _, rule := range rules {
			if category != CategoryAll && rule.Category != category {
				continue
			}
			for _, f := range rule.Check(g) {
				result.Suggestions = append(result.Suggestions, simpleeks.OptimizeSuggestion{
					Rule:        rule.ID,
					Stack:       g.Name(),
					Declaration: f.declaration,
					Category:    rule.Category,
					Severity:    rule.Severity,
					Title:       rule.Title,
					Description: f.description,
					Suggestion:  rule.Suggestion,
				})
			}
		}
	}
	result.Summary = calculateSummary(result.Suggestions)
	return result
}

// calculateSummary tallies suggestions by category.
func calculateSummary(suggestions []simpleeks.OptimizeSuggestion) simpleeks.OptimizeSummary {
	summary := simpleeks.OptimizeSummary{}
	for _, s := range suggestions {
		switch s.Category {
		case CategorySecurity:
			summary.Security++
		case CategoryCost:
			summary.Cost++
		case CategoryPerformance:
			summary.Performance++
		case CategoryReliability:
			summary.Reliability++
		}
		summary.Total++
	}
	return summary
}

// Rule is an optimization rule over one graph.
type Rule struct {
	ID         string
	Category   string
	Severity   string
	Title      string
	Suggestion string
	Check      func(g *model.Graph) []finding
}

// finding is a rule match on one declaration.
type finding struct {
	declaration string
	description string
}
