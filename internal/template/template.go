// Package template assembles typed resources into CloudFormation templates.
package template

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	simpleeks "github.com/miztiik/simple-eks-cluster"
	"github.com/miztiik/simple-eks-cluster/internal/serialize"
)

// FormatVersion is the only CloudFormation template format version.
const FormatVersion = "2010-09-09"

type entry struct {
	value     simpleeks.Resource
	dependsOn []string
}

// Builder constructs a CloudFormation template from typed resources keyed by
// logical ID.
type Builder struct {
	description string
	resources   map[string]entry
	outputs     map[string]simpleeks.Output
}

// NewBuilder creates an empty template builder.
func NewBuilder(description string) *Builder {
	return &Builder{
		description: description,
		resources:   make(map[string]entry),
		outputs:     make(map[string]simpleeks.Output),
	}
}

// Add registers a resource. dependsOn lists explicit dependencies that are
// not visible through Ref or GetAtt.
func (b *Builder) Add(name string, r simpleeks.Resource, dependsOn ...string) error {
	if name == "" {
		return errors.New("resource name is required")
	}
	if r == nil {
		return fmt.Errorf("resource %s: value is nil", name)
	}
	if _, exists := b.resources[name]; exists {
		return fmt.Errorf("duplicate resource %s", name)
	}
	b.resources[name] = entry{value: r, dependsOn: dependsOn}
	return nil
}

// AddOutput registers a template output.
func (b *Builder) AddOutput(name string, o simpleeks.Output) error {
	if _, exists := b.outputs[name]; exists {
		return fmt.Errorf("duplicate output %s", name)
	}
	b.outputs[name] = o
	return nil
}

// Len returns the number of registered resources.
func (b *Builder) Len() int {
	return len(b.resources)
}

type built struct {
	props map[string]any
	deps  []string
}

func (b *Builder) serializeAll() (map[string]built, error) {
	out := make(map[string]built, len(b.resources))
	for name, e := range b.resources {
		props, err := serialize.Resource(e.value)
		if err != nil {
			return nil, fmt.Errorf("serializing %s: %w", name, err)
		}

		deps := map[string]bool{}
		collectRefs(props, deps)
		for _, d := range e.dependsOn {
			deps[d] = true
		}
		delete(deps, name)

		list := make([]string, 0, len(deps))
		for d := range deps {
			if _, ok := b.resources[d]; !ok {
				return nil, fmt.Errorf("resource %s references unknown resource %s", name, d)
			}
			list = append(list, d)
		}
		sort.Strings(list)
		out[name] = built{props: props, deps: list}
	}
	return out, nil
}

// Build serializes every resource and output into a template.
func (b *Builder) Build() (*simpleeks.Template, error) {
	resources, err := b.serializeAll()
	if err != nil {
		return nil, err
	}
	if _, err := topologicalSort(resources); err != nil {
		return nil, err
	}

	t := &simpleeks.Template{
		AWSTemplateFormatVersion: FormatVersion,
		Description:              b.description,
		Resources:                make(map[string]simpleeks.ResourceDef, len(resources)),
	}
	for name, r := range resources {
		t.Resources[name] = simpleeks.ResourceDef{
			Type:       b.resources[name].value.ResourceType(),
			Properties: r.props,
			DependsOn:  explicitDependsOn(b.resources[name].dependsOn),
		}
	}

	if len(b.outputs) > 0 {
		t.Outputs = make(map[string]simpleeks.Output, len(b.outputs))
		for name, o := range b.outputs {
			value, err := normalize(o.Value)
			if err != nil {
				return nil, fmt.Errorf("serializing output %s: %w", name, err)
			}
			refs := map[string]bool{}
			collectRefs(value, refs)
			for ref := range refs {
				if _, ok := b.resources[ref]; !ok {
					return nil, fmt.Errorf("output %s references unknown resource %s", name, ref)
				}
			}
			o.Value = value
			t.Outputs[name] = o
		}
	}

	return t, nil
}

// Order returns the logical IDs in dependency order. Ties are broken by name.
func (b *Builder) Order() ([]string, error) {
	resources, err := b.serializeAll()
	if err != nil {
		return nil, err
	}
	return topologicalSort(resources)
}

// Dependencies returns the resources name depends on, sorted.
func (b *Builder) Dependencies(name string) ([]string, error) {
	if _, ok := b.resources[name]; !ok {
		return nil, fmt.Errorf("unknown resource %s", name)
	}
	resources, err := b.serializeAll()
	if err != nil {
		return nil, err
	}
	return resources[name].deps, nil
}

func explicitDependsOn(deps []string) []string {
	if len(deps) == 0 {
		return nil
	}
	out := append([]string(nil), deps...)
	sort.Strings(out)
	return out
}

// normalize converts a value with custom marshalers into plain maps and
// slices so that JSON and YAML render it the same way.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

var subRefPattern = regexp.MustCompile(`\$\{([^}!][^}]*)\}`)

// collectRefs records the logical IDs referenced by Ref, Fn::GetAtt and
// Fn::Sub. Pseudo parameters are skipped.
func collectRefs(value any, refs map[string]bool) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := v["Ref"].(string); ok && len(v) == 1 {
			addRef(ref, refs)
			return
		}
		if getAtt, ok := v["Fn::GetAtt"]; ok && len(v) == 1 {
			switch ga := getAtt.(type) {
			case []any:
				if len(ga) > 0 {
					if name, ok := ga[0].(string); ok {
						addRef(name, refs)
					}
				}
			case string:
				addRef(strings.SplitN(ga, ".", 2)[0], refs)
			}
			return
		}
		if sub, ok := v["Fn::Sub"]; ok && len(v) == 1 {
			switch s := sub.(type) {
			case string:
				collectSubRefs(s, nil, refs)
			case []any:
				if len(s) > 0 {
					vars, _ := s[len(s)-1].(map[string]any)
					if str, ok := s[0].(string); ok {
						collectSubRefs(str, vars, refs)
					}
					for _, val := range vars {
						collectRefs(val, refs)
					}
				}
			}
			return
		}
		for _, val := range v {
			collectRefs(val, refs)
		}
	case []any:
		for _, elem := range v {
			collectRefs(elem, refs)
		}
	}
}

func collectSubRefs(s string, vars map[string]any, refs map[string]bool) {
	for _, m := range subRefPattern.FindAllStringSubmatch(s, -1) {
		name := strings.SplitN(m[1], ".", 2)[0]
		if _, local := vars[name]; local {
			continue
		}
		addRef(name, refs)
	}
}

func addRef(name string, refs map[string]bool) {
	if name == "" || strings.HasPrefix(name, "AWS::") {
		return
	}
	refs[name] = true
}

// topologicalSort returns resources in dependency order.
func topologicalSort(resources map[string]built) ([]string, error) {
	graph := make(map[string][]string)
	inDegree := make(map[string]int)

	for name := range resources {
		graph[name] = nil
		inDegree[name] = 0
	}

	for name, res := range resources {
		for _, dep := range res.deps {
			graph[dep] = append(graph[dep], name)
			inDegree[name]++
		}
	}

	// Kahn's algorithm
	var queue []string
	for name, degree := range inDegree {
		if degree == 0 {
			queue = append(queue, name)
		}
	}
	sort.Strings(queue)

	var result []string
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		result = append(result, node)

		for _, neighbor := range graph[node] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
				sort.Strings(queue)
			}
		}
	}

	if len(result) != len(resources) {
		return nil, detectCycle(resources)
	}

	return result, nil
}

// detectCycle finds and reports a cycle in the dependency graph.
func detectCycle(resources map[string]built) error {
	visited := make(map[string]bool)
	onPath := make(map[string]bool)
	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		visited[node] = true
		onPath[node] = true
		stack = append(stack, node)

		for _, dep := range resources[node].deps {
			if onPath[dep] {
				for i, n := range stack {
					if n == dep {
						cycle = append(append([]string(nil), stack[i:]...), dep)
						return true
					}
				}
			}
			if !visited[dep] && visit(dep) {
				return true
			}
		}

		stack = stack[:len(stack)-1]
		onPath[node] = false
		return false
	}

	names := make([]string, 0, len(resources))
	for name := range resources {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !visited[name] && visit(name) {
			break
		}
	}

	if len(cycle) > 0 {
		return fmt.Errorf("circular dependency detected: %s", strings.Join(cycle, " -> "))
	}
	return errors.New("circular dependency detected")
}

// ToJSON serializes the template to JSON.
func ToJSON(t *simpleeks.Template) ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// ToYAML serializes the template to YAML.
func ToYAML(t *simpleeks.Template) ([]byte, error) {
	return yaml.Marshal(t)
}
