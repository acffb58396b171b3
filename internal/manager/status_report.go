package manager

import (
	"time"

	"nlpd/internal/classifier"
	"nlpd/internal/worker"
	"nlpd/pkg/types"
)

// Overall states reported by Status.
const (
	StateLoading  = "loading"
	StateReady    = "ready"
	StateDegraded = "degraded"
	StateError    = "error"
	StateStopped  = "stopped"
)

func (m *Manager) stats() []worker.Stats {
	var out []worker.Stats
	out = append(out, m.sentiment.Stats()...)
	out = append(out, m.summarization.Stats()...)
	out = append(out, m.qa.Stats()...)
	out = append(out, m.keywords.Stats()...)
	return out
}

// Status builds a detailed status response for /status.
func (m *Manager) Status() types.StatusResponse {
	now := time.Now()
	resp := types.StatusResponse{
		Backend:        m.backend,
		UptimeSeconds:  int64(now.Sub(m.startTime).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	stats := m.stats()
	resp.Workers = make([]types.WorkerStatus, 0, len(stats))
	alive := make(map[string]int)
	loading, dead := 0, 0
	for _, s := range stats {
		resp.Workers = append(resp.Workers, types.WorkerStatus{
			Kind:      s.Kind,
			State:     string(s.State),
			QueueLen:  s.QueueLen,
			QueueCap:  s.QueueCap,
			Inflight:  s.Inflight,
			Served:    s.Served,
			Failed:    s.Failed,
			Abandoned: s.Abandoned,
			LastError: s.LastError,
		})
		switch s.State {
		case worker.StateReady:
			alive[s.Kind]++
		case worker.StateLoading:
			alive[s.Kind]++
			loading++
		default:
			dead++
		}
		if resp.LastError == "" && s.LastError != "" {
			resp.LastError = s.LastError
		}
	}
	switch {
	case m.isClosed():
		resp.State = StateStopped
	case len(alive) < len(classifier.Kinds):
		resp.State = StateError
	case loading > 0:
		resp.State = StateLoading
	case dead > 0:
		resp.State = StateDegraded
	default:
		resp.State = StateReady
	}
	return resp
}

// ListModels reports the backend, the configured model per kind and the
// discovered model files.
func (m *Manager) ListModels() types.ModelsResponse {
	out := make([]types.Model, len(m.registry))
	copy(out, m.registry)
	assigned := make(map[string]string, len(m.assigned))
	for k, v := range m.assigned {
		assigned[k] = v
	}
	return types.ModelsResponse{Backend: m.backend, Assigned: assigned, Models: out}
}
