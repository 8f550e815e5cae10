package testsupport

import (
	"context"
	"errors"
	"strings"
	"sync"

	"cadenza/internal/services"
	"cadenza/internal/services/llm"
)

// ErrScriptExhausted is returned when a ScriptedCompleter runs out of replies.
var ErrScriptExhausted = errors.New("scripted completer: no replies left")

// Reply is one scripted completion outcome.
type Reply struct {
	Response string
	Err      error
}

// Text returns a successful reply.
func Text(response string) Reply {
	return Reply{Response: response}
}

// Failure returns a reply that fails like an unavailable completion service.
func Failure(message string) Reply {
	return Reply{Err: services.Wrap(services.ErrAIService, "llm", "complete", message, nil)}
}

// Route answers prompts that contain Match.
type Route struct {
	Match string
	Reply func(prompt string) Reply
}

// ScriptedCompleter is an llm.Completer fake. It answers from routes first,
// then from the reply queue in order. It is safe for concurrent use.
type ScriptedCompleter struct {
	mu      sync.Mutex
	routes  []Route
	replies []Reply
	prompts []string
	models  []string
}

var _ llm.Completer = (*ScriptedCompleter)(nil)

// NewScriptedCompleter returns a completer that answers with replies in order.
func NewScriptedCompleter(replies ...Reply) *ScriptedCompleter {
	return &ScriptedCompleter{replies: append([]Reply(nil), replies...)}
}

// On adds a route answered for every prompt containing match.
func (s *ScriptedCompleter) On(match string, reply func(prompt string) Reply) *ScriptedCompleter {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes = append(s.routes, Route{Match: match, Reply: reply})
	return s
}

// Enqueue appends replies to the queue.
func (s *ScriptedCompleter) Enqueue(replies ...Reply) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies = append(s.replies, replies...)
}

// Complete implements llm.Completer.
func (s *ScriptedCompleter) Complete(ctx context.Context, prompt, model string, _ llm.Options) (llm.Completion, error) {
	if err := ctx.Err(); err != nil {
		return llm.Completion{}, err
	}
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.models = append(s.models, model)
	var reply Reply
	matched := false
	for _, route := range s.routes {
		if strings.Contains(prompt, route.Match) {
			reply = route.Reply(prompt)
			matched = true
			break
		}
	}
	if !matched {
		if len(s.replies) == 0 {
			s.mu.Unlock()
			return llm.Completion{}, services.Wrap(services.ErrAIService, "llm", "complete", "", ErrScriptExhausted)
		}
		reply = s.replies[0]
		s.replies = s.replies[1:]
	}
	s.mu.Unlock()

	if reply.Err != nil {
		return llm.Completion{}, reply.Err
	}
	if model == "" {
		model = "scripted"
	}
	return llm.Completion{Response: reply.Response, LatencyMS: 1, Model: model}, nil
}

// Calls returns how many completions were requested.
func (s *ScriptedCompleter) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

// Prompts returns a copy of every prompt received, in order.
func (s *ScriptedCompleter) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

// Remaining returns the number of unconsumed queued replies.
func (s *ScriptedCompleter) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.replies)
}
