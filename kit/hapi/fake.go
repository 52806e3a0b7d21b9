package hapi

import (
	"context"
	"fmt"
	"sync"
)

// Call records one Follow made against a Fake.
type Call struct {
	Rel    string
	Method string
	Query  map[string]string
	Body   any
}

type fakeResponse struct {
	res *Resource
	err error
}

// Fake is an in-memory Gateway answering with canned resources keyed by relation.
// Queued answers are consumed in order; the last one keeps being returned.
type Fake struct {
	mu            sync.Mutex
	root          *Resource
	entryPointErr error
	responses     map[string][]fakeResponse
	calls         []Call
}

// NewFake returns a fake whose entry point links every given relation.
func NewFake(rels ...string) *Fake {
	links := make(map[string]string, len(rels))
	for _, rel := range rels {
		links[AlpsNamespace+rel] = "/" + rel
	}
	return &Fake{root: NewResource(nil, links), responses: map[string][]fakeResponse{}}
}

func (f *Fake) FailEntryPoint(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entryPointErr = err
}

// On queues an answer for rel.
func (f *Fake) On(rel string, res *Resource, err error) *Fake {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[rel] = append(f.responses[rel], fakeResponse{res: res, err: err})
	return f
}

// Calls returns the recorded follows for rel, or all of them when rel is empty.
func (f *Fake) Calls(rel string) []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []Call
	for _, c := range f.calls {
		if rel == "" || c.Rel == rel {
			out = append(out, c)
		}
	}
	return out
}

func (f *Fake) EntryPoint(context.Context) (*Resource, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entryPointErr != nil {
		return nil, f.entryPointErr
	}
	return f.root, nil
}

func (f *Fake) Follow(ctx context.Context, from *Resource, fl Follow) (*Resource, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, ok := from.Link(fl.Rel); !ok {
		return nil, fmt.Errorf("%w: %s", ErrLinkNotFound, fl.Rel)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Rel: fl.Rel, Method: fl.Method, Query: fl.Query, Body: fl.Body})

	queue := f.responses[fl.Rel]
	if len(queue) == 0 {
		return nil, fmt.Errorf("hapi fake: no response queued for %s", fl.Rel)
	}
	next := queue[0]
	if len(queue) > 1 {
		f.responses[fl.Rel] = queue[1:]
	}
	return next.res, next.err
}
