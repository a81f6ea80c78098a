package recalc

// topoSort orders fields so that every field appears after the fields its
// SetValue/Condition expressions read (spec.md section 4.6 step 7). It is
// Kahn's algorithm with one deliberate relaxation: a remaining cycle does
// not fail the sort — the unresolved fields are appended in their order
// in fields at the tail and left for fixpoint iteration to settle, mirroring
// the cycle-tolerant layer assignment the teacher's dependency-graph
// layout uses (falling back to layer 0 for anything it cannot place
// rather than erroring).
func topoSort(fields []string, deps map[string][]string) []string {
	indegree := make(map[string]int, len(fields))
	present := make(map[string]bool, len(fields))
	for _, f := range fields {
		indegree[f] = 0
		present[f] = true
	}
	for _, f := range fields {
		for _, dep := range deps[f] {
			if present[dep] {
				indegree[f]++
			}
		}
	}

	var queue []string
	for _, f := range fields {
		if indegree[f] == 0 {
			queue = append(queue, f)
		}
	}

	var order []string
	dependents := make(map[string][]string)
	for _, f := range fields {
		for _, dep := range deps[f] {
			if present[dep] {
				dependents[dep] = append(dependents[dep], f)
			}
		}
	}

	visited := make(map[string]bool, len(fields))
	for len(queue) > 0 {
		f := queue[0]
		queue = queue[1:]
		if visited[f] {
			continue
		}
		visited[f] = true
		order = append(order, f)
		for _, next := range dependents[f] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	if len(order) < len(fields) {
		for _, f := range fields {
			if !visited[f] {
				order = append(order, f)
			}
		}
	}
	return order
}
