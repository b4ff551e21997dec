package agents

import (
	"context"
	"sync"

	"postforge/internal/domain"
)

// Result is one agent's outcome: a validated draft or the error that sank
// it. Exactly one of the two is set.
type Result struct {
	Variant int
	Role    Role
	Draft   *domain.Draft
	Err     error
}

// Ensemble fans a job out to the fixed set of agent roles in parallel and
// joins every result. One agent failing never cancels or fails the others;
// the caller decides what to do with failed slots.
type Ensemble struct {
	generator Generator
}

func NewEnsemble(generator Generator) *Ensemble {
	return &Ensemble{generator: generator}
}

// Run executes all roles concurrently and returns results indexed by
// variant (results[i] is variant i+1). onSettled, if non-nil, is invoked
// once per finished agent with the running settled count, for progress
// reporting.
func (e *Ensemble) Run(ctx context.Context, jobID string, request domain.GenerationRequest, digest domain.PatternDigest, onSettled func(settled int)) []Result {
	results := make([]Result, domain.DraftCount)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		settled int
	)
	for i, role := range Roles {
		wg.Add(1)
		go func(idx int, role Role) {
			defer wg.Done()
			req := GenerateRequest{
				JobID:   jobID,
				Variant: idx + 1,
				Role:    role,
				Request: request,
				Digest:  digest,
			}
			draft, err := e.generator.Generate(ctx, req)
			results[idx] = Result{Variant: idx + 1, Role: role, Draft: draft, Err: err}

			if onSettled != nil {
				mu.Lock()
				settled++
				n := settled
				mu.Unlock()
				onSettled(n)
			}
		}(i, role)
	}
	wg.Wait()
	return results
}
