// Package testutils provides mock implementations and fixtures for testing
package testutils

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/fridgechef/fridgechef/internal/domain/recipe"
	"github.com/fridgechef/fridgechef/internal/ports/outbound"
)

// MockRecipeGenerator provides a mock implementation of outbound.RecipeGenerator
type MockRecipeGenerator struct {
	mock.Mock

	mu       sync.Mutex
	requests []outbound.GenerationRequest
}

var _ outbound.RecipeGenerator = (*MockRecipeGenerator)(nil)

// NewMockRecipeGenerator creates a new mock generator
func NewMockRecipeGenerator() *MockRecipeGenerator {
	return &MockRecipeGenerator{}
}

// Generate records the request and returns the configured result
func (m *MockRecipeGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.RecipeResponse, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*recipe.RecipeResponse), args.Error(1)
}

// Requests returns every request received so far
func (m *MockRecipeGenerator) Requests() []outbound.GenerationRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]outbound.GenerationRequest(nil), m.requests...)
}

// BlockingGenerator holds every call until Release is invoked.
// It lets tests observe a session while a generation is in flight.
type BlockingGenerator struct {
	Started  chan outbound.GenerationRequest
	release  chan struct{}
	response *recipe.RecipeResponse
	err      error
}

// NewBlockingGenerator returns a generator that answers with resp and err once released
func NewBlockingGenerator(resp *recipe.RecipeResponse, err error) *BlockingGenerator {
	return &BlockingGenerator{
		Started:  make(chan outbound.GenerationRequest, 1),
		release:  make(chan struct{}),
		response: resp,
		err:      err,
	}
}

// Generate blocks until Release or ctx is done
func (b *BlockingGenerator) Generate(ctx context.Context, req outbound.GenerationRequest) (*recipe.RecipeResponse, error) {
	b.Started <- req
	select {
	case <-b.release:
		return b.response, b.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release lets the pending call complete
func (b *BlockingGenerator) Release() {
	close(b.release)
}
