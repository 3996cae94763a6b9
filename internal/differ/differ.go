// Package differ provides semantic comparison of CloudFormation templates.
package differ

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"gopkg.in/yaml.v3"

	simpleeks "github.com/miztiik/simple-eks-cluster"
)

// Options configures the differ.
type Options struct {
	// IgnoreOrder ignores array element order in comparisons
	IgnoreOrder bool
}

// Result contains the difference between two templates.
type Result struct {
	Diff    simpleeks.TemplateDiff
	Summary simpleeks.DiffSummary
}

// Empty reports whether the templates had no resource differences.
func (r *Result) Empty() bool {
	return r.Summary.Total == 0
}

// Compare compares two CloudFormation templates and returns differences.
// Property values are compared after a JSON round trip, so a freshly
// synthesized template compares equal to the same template read from disk.
func Compare(template1, template2 *simpleeks.Template, opts Options) (*Result, error) {
	res1, err := normalizeResources(template1)
	if err != nil {
		return nil, err
	}
	res2, err := normalizeResources(template2)
	if err != nil {
		return nil, err
	}

	result := &Result{}

	for name, def := range res2 {
		if _, exists := res1[name]; !exists {
			result.Diff.Added = append(result.Diff.Added, simpleeks.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	for name, def := range res1 {
		if _, exists := res2[name]; !exists {
			result.Diff.Removed = append(result.Diff.Removed, simpleeks.DiffEntry{
				Resource: name,
				Type:     def.Type,
			})
		}
	}

	for name, def1 := range res1 {
		if def2, exists := res2[name]; exists {
			changes := compareResources(def1, def2, opts)
			if len(changes) > 0 {
				result.Diff.Modified = append(result.Diff.Modified, simpleeks.DiffEntry{
					Resource: name,
					Type:     def1.Type,
					Changes:  changes,
				})
			}
		}
	}

	sortEntries(result.Diff.Added)
	sortEntries(result.Diff.Removed)
	sortEntries(result.Diff.Modified)

	result.Summary = simpleeks.DiffSummary{
		Added:    len(result.Diff.Added),
		Removed:  len(result.Diff.Removed),
		Modified: len(result.Diff.Modified),
	}
	result.Summary.Total = result.Summary.Added + result.Summary.Removed + result.Summary.Modified

	return result, nil
}

// CompareFiles compares two template files.
func CompareFiles(file1, file2 string, opts Options) (*Result, error) {
	t1, err := LoadTemplate(file1)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file1, err)
	}

	t2, err := LoadTemplate(file2)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", file2, err)
	}

	return Compare(t1, t2, opts)
}

// LoadTemplate loads a CloudFormation template from a JSON or YAML file.
func LoadTemplate(path string) (*simpleeks.Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseTemplate(data)
}

// ParseTemplate parses a JSON or YAML CloudFormation template.
func ParseTemplate(data []byte) (*simpleeks.Template, error) {
	var template simpleeks.Template

	if err := json.Unmarshal(data, &template); err != nil {
		template = simpleeks.Template{}
		if err := yaml.Unmarshal(data, &template); err != nil {
			return nil, fmt.Errorf("failed to parse as JSON or YAML: %w", err)
		}
	}

	return &template, nil
}

func normalizeResources(t *simpleeks.Template) (map[string]simpleeks.ResourceDef, error) {
	out := make(map[string]simpleeks.ResourceDef, len(t.Resources))
	for name, def := range t.Resources {
		data, err := json.Marshal(def.Properties)
		if err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}
		var props map[string]any
		if err := json.Unmarshal(data, &props); err != nil {
			return nil, fmt.Errorf("resource %s: %w", name, err)
		}
		def.Properties = props
		out[name] = def
	}
	return out, nil
}

// compareResources compares two resource definitions and returns changes.
func compareResources(def1, def2 simpleeks.ResourceDef, opts Options) []string {
	var changes []string

	if def1.Type != def2.Type {
		changes = append(changes, fmt.Sprintf("Type changed: %s → %s", def1.Type, def2.Type))
	}

	changes = append(changes, compareProperties("", def1.Properties, def2.Properties, opts)...)

	if !cmp.Equal(def1.DependsOn, def2.DependsOn, cmpopts.EquateEmpty(), cmpopts.SortSlices(func(a, b string) bool { return a < b })) {
		changes = append(changes, "DependsOn changed")
	}

	return changes
}

// compareProperties recursively compares property maps and reports the
// deepest differing path.
func compareProperties(prefix string, props1, props2 map[string]any, opts Options) []string {
	var changes []string

	for key, val2 := range props2 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		val1, exists := props1[key]
		if !exists {
			changes = append(changes, fmt.Sprintf("%s added", path))
			continue
		}
		m1, ok1 := val1.(map[string]any)
		m2, ok2 := val2.(map[string]any)
		if ok1 && ok2 && !isIntrinsic(m1) && !isIntrinsic(m2) {
			changes = append(changes, compareProperties(path, m1, m2, opts)...)
			continue
		}
		if !deepEqual(val1, val2, opts) {
			changes = append(changes, fmt.Sprintf("%s modified", path))
		}
	}

	for key := range props1 {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}

		if _, exists := props2[key]; !exists {
			changes = append(changes, fmt.Sprintf("%s removed", path))
		}
	}

	sort.Strings(changes)
	return changes
}

func isIntrinsic(m map[string]any) bool {
	if len(m) != 1 {
		return false
	}
	for k := range m {
		return k == "Ref" || len(k) > 4 && k[:4] == "Fn::"
	}
	return false
}

// deepEqual compares two values deeply, optionally ignoring slice order.
func deepEqual(a, b any, opts Options) bool {
	if opts.IgnoreOrder {
		return cmp.Equal(a, b, cmpopts.SortSlices(lessAny))
	}
	return cmp.Equal(a, b)
}

// lessAny orders arbitrary JSON values by their canonical encoding.
func lessAny(a, b any) bool {
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	return string(ja) < string(jb)
}

// sortEntries sorts diff entries by resource name.
func sortEntries(entries []simpleeks.DiffEntry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Resource < entries[j].Resource
	})
}
