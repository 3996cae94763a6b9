// Package validation lints synthesized CloudFormation templates with
// cfn-lint-go.
package validation

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lex00/cfn-lint-go/pkg/lint"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/template"
)

// CfnLintResult contains the result of running cfn-lint.
type CfnLintResult struct {
	Passed        bool     `json:"passed"`
	Errors        []string `json:"errors"`
	Warnings      []string `json:"warnings"`
	Informational []string `json:"informational"`
}

// TotalIssues returns the total number of issues found.
func (r CfnLintResult) TotalIssues() int {
	return len(r.Errors) + len(r.Warnings) + len(r.Informational)
}

// StackResult is the lint result of one stack.
type StackResult struct {
	Stack     string        `json:"stack"`
	Resources int           `json:"resources"`
	Lint      CfnLintResult `json:"lint"`
}

// RunCfnLint runs cfn-lint-go on the given template file.
func RunCfnLint(templatePath string) (*CfnLintResult, error) {
	if _, err := os.Stat(templatePath); err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Template file not found: %s", templatePath)},
		}, nil
	}

	linter := lint.New(lint.Options{})
	matches, err := linter.LintFile(templatePath)
	if err != nil {
		return &CfnLintResult{
			Passed: false,
			Errors: []string{fmt.Sprintf("Linter error: %v", err)},
		}, nil
	}

	result := &CfnLintResult{
		Errors:        []string{},
		Warnings:      []string{},
		Informational: []string{},
	}

	for _, match := range matches {
		formatted := formatMatch(match)

		switch match.Level {
		case "Error":
			result.Errors = append(result.Errors, formatted)
		case "Warning":
			result.Warnings = append(result.Warnings, formatted)
		default:
			result.Informational = append(result.Informational, formatted)
		}
	}

	// Warnings are acceptable.
	result.Passed = len(result.Errors) == 0

	return result, nil
}

// LintTemplate writes the template to a scratch file and lints it.
func LintTemplate(t *simpleeks.Template) (*CfnLintResult, error) {
	data, err := template.ToJSON(t)
	if err != nil {
		return nil, fmt.Errorf("serializing template: %w", err)
	}

	dir, err := os.MkdirTemp("", "simple-eks-lint-")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "template.json")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, fmt.Errorf("writing template: %w", err)
	}
	return RunCfnLint(path)
}

// LintStacks lints every stack, in stack name order.
func LintStacks(stacks map[string]*simpleeks.Template) ([]StackResult, error) {
	names := make([]string, 0, len(stacks))
	for name := range stacks {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make([]StackResult, 0, len(names))
	for _, name := range names {
		res, err := LintTemplate(stacks[name])
		if err != nil {
			return nil, fmt.Errorf("linting %s: %w", name, err)
		}
		results = append(results, StackResult{
			Stack:     name,
			Resources: len(stacks[name].Resources),
			Lint:      *res,
		})
	}
	return results, nil
}

// formatMatch formats a cfn-lint-go match for display.
func formatMatch(match lint.Match) string {
	pathStr := ""
	if len(match.Location.Path) > 0 {
		parts := make([]string, len(match.Location.Path))
		for i, p := range match.Location.Path {
			parts[i] = fmt.Sprintf("%v", p)
		}
		pathStr = strings.Join(parts, "/")
	}

	if pathStr != "" {
		return fmt.Sprintf("%s: %s (at %s)", match.Rule.ID, match.Message, pathStr)
	}
	return fmt.Sprintf("%s: %s", match.Rule.ID, match.Message)
}
