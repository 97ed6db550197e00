package services

import (
	"context"
	"errors"
	"sync"
)

// stubLLM answers model calls with canned functions and records the prompts it saw.
type stubLLM struct {
	mu      sync.Mutex
	prompts []string

	text  func(ctx context.Context, prompt string) (string, error)
	json  func(ctx context.Context, system, prompt string) (string, error)
	embed func(ctx context.Context, text string) ([]float32, error)
}

func (s *stubLLM) record(prompt string) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()
}

func (s *stubLLM) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

func (s *stubLLM) GenerateText(ctx context.Context, prompt string, _ float32) (string, error) {
	s.record(prompt)
	if s.text == nil {
		return "", errors.New("unexpected text call")
	}
	return s.text(ctx, prompt)
}

func (s *stubLLM) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	s.record(prompt)
	if s.json == nil {
		return "", errors.New("unexpected json call")
	}
	return s.json(ctx, system, prompt)
}

func (s *stubLLM) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if s.embed == nil {
		return nil, errors.New("unexpected embedding call")
	}
	return s.embed(ctx, text)
}
