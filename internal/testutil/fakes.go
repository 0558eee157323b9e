package testutil

import (
	"context"
	"sync"
)

// FakeGenerator is a scripted ai.TextGenerator. Queued replies are used in
// order; once they run out Response and Err are returned.
type FakeGenerator struct {
	mu       sync.Mutex
	queue    []fakeReply
	Response string
	Err      error
	prompts  []string
}

type fakeReply struct {
	text string
	err  error
}

func NewFakeGenerator() *FakeGenerator {
	return &FakeGenerator{}
}

func (g *FakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)
	if len(g.queue) > 0 {
		r := g.queue[0]
		g.queue = g.queue[1:]
		return r.text, r.err
	}
	return g.Response, g.Err
}

// Reply queues a successful response.
func (g *FakeGenerator) Reply(text string) *FakeGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, fakeReply{text: text})
	return g
}

// Fail queues a failed call.
func (g *FakeGenerator) Fail(err error) *FakeGenerator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.queue = append(g.queue, fakeReply{err: err})
	return g
}

// Prompts returns every prompt received so far.
func (g *FakeGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}
