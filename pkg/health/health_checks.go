package health

import "time"

// Health check builders for the keygraph components

// SimpleCheck creates a simple health check that always returns healthy
func SimpleCheck(name string) Check {
	return Check{
		Name:        name,
		Status:      StatusHealthy,
		LastChecked: time.Now(),
	}
}

// PipelineCheck reports whether a keyword graph has been built yet.
// A server that has not completed its first rebuild is degraded, not
// unhealthy: it can still accept requests.
func PipelineCheck(state func() (built bool, documents, nodes, links int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "pipeline",
			Details: make(map[string]any),
		}

		built, documents, nodes, links := state()

		check.Details["documents"] = documents
		check.Details["nodes"] = nodes
		check.Details["links"] = links

		if !built {
			check.Status = StatusDegraded
			check.Message = "No graph built yet"
		} else {
			check.Status = StatusHealthy
			check.Message = "Graph ready"
		}

		return check
	}
}

// LayoutCheck reports the simulation state
func LayoutCheck(state func() (phase string, alpha float64, pinned int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "layout",
			Details: make(map[string]any),
		}

		phase, alpha, pinned := state()

		check.Details["phase"] = phase
		check.Details["alpha"] = alpha
		check.Details["pinned_nodes"] = pinned

		switch phase {
		case "stopped":
			check.Status = StatusDegraded
			check.Message = "Engine stopped"
		case "":
			check.Status = StatusDegraded
			check.Message = "No engine running"
		default:
			check.Status = StatusHealthy
			check.Message = "Simulation " + phase
		}

		return check
	}
}

// CorpusCheck creates a health check for corpus source connectivity
func CorpusCheck(source string, pingFunc func() error) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "corpus",
			Details: map[string]any{"source": source},
		}

		if err := pingFunc(); err != nil {
			check.Status = StatusUnhealthy
			check.Message = err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "Reachable"
		}

		return check
	}
}

// StreamCheck reports frame fan-out state
func StreamCheck(state func() (subscribers int, dropped uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "stream",
			Details: make(map[string]any),
		}

		subscribers, dropped := state()

		check.Details["subscribers"] = subscribers
		check.Details["dropped_frames"] = dropped

		check.Status = StatusHealthy
		check.Message = "Streaming"

		return check
	}
}

// MemoryCheck creates a health check for memory usage
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()

		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		usagePercent := float64(alloc) / float64(sys) * 100

		if usagePercent > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}

		return check
	}
}
