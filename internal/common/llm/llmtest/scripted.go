// Package llmtest provides language-model doubles for handler tests.
package llmtest

import (
	"context"
	"errors"
	"sync"
)

// Scripted returns Replies in order and records every prompt. Once the
// script is exhausted it returns an error.
type Scripted struct {
	Replies []string
	Err     error

	mu        sync.Mutex
	Prompts   []string
	JSONCalls int
}

func NewScripted(replies ...string) *Scripted {
	return &Scripted{Replies: replies}
}

func (s *Scripted) Complete(ctx context.Context, prompt string) (string, error) {
	return s.next(prompt, false)
}

func (s *Scripted) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return s.next(prompt, true)
}

func (s *Scripted) next(prompt string, jsonMode bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Prompts = append(s.Prompts, prompt)
	if jsonMode {
		s.JSONCalls++
	}
	if s.Err != nil {
		return "", s.Err
	}
	i := len(s.Prompts) - 1
	if i >= len(s.Replies) {
		return "", errors.New("llmtest: script exhausted")
	}
	return s.Replies[i], nil
}

// LastPrompt returns the most recent prompt, or "".
func (s *Scripted) LastPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.Prompts) == 0 {
		return ""
	}
	return s.Prompts[len(s.Prompts)-1]
}

// Func answers each prompt with a function of the prompt text.
type Func func(prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(prompt)
}

func (f Func) CompleteJSON(ctx context.Context, prompt string) (string, error) {
	return f(prompt)
}
