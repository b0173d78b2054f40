package compose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coretide/codearmor/internal/types"
)

// ErrUnknownTask is returned by Resolve when the plan has no such task.
var ErrUnknownTask = errors.New("unknown task")

// qualify makes dep absolute relative to project. Absolute names (":api:x")
// are returned as is; root-relative names stay unqualified.
func qualify(project, dep string) string {
	if strings.HasPrefix(dep, ":") || project == "" || project == ":" {
		return dep
	}
	return project + ":" + dep
}

// Resolve flattens the named aggregate into the tool tasks it ultimately
// runs, in dependency order and without duplicates. Nested aggregates are
// expanded in place. Action tasks resolve to nothing. An unqualified name
// with no root task resolves the same-named task of every project, the way
// Gradle runs a bare task name.
func Resolve(plan *types.Plan, name string) ([]string, error) {
	nodes := plan.Select(name)
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownTask, name, strings.Join(plan.Names(), ", "))
	}

	var out []string
	seen := map[string]bool{}
	visiting := map[string]bool{}

	var walk func(n types.TaskNode) error
	walk = func(n types.TaskNode) error {
		qn := n.QualifiedName()
		if visiting[qn] {
			return fmt.Errorf("dependency cycle at %s", qn)
		}
		visiting[qn] = true
		defer delete(visiting, qn)

		for _, dep := range n.DependsOn {
			full := qualify(n.Project, dep)
			if child, ok := plan.Find(full); ok {
				if err := walk(child); err != nil {
					return err
				}
				continue
			}
			if !seen[full] {
				seen[full] = true
				out = append(out, full)
			}
		}
		return nil
	}

	for _, node := range nodes {
		if err := walk(node); err != nil {
			return nil, err
		}
	}
	return out, nil
}
