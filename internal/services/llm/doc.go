// Package llm provides the completion-service client used by every AI step of
// the generation pipeline: drafting definitions, cleaning search phrases,
// choosing among reference candidates, and scoring entries.
//
// # Contract
//
// Completer is the narrow seam the pipeline depends on:
// Complete(ctx, prompt, model, Options) returns the response text, the
// observed latency, and the model that served it. Client implements it against
// an OpenRouter-compatible chat completions endpoint; tests substitute a
// scripted fake.
//
// # Errors
//
// Every failure returned by Complete is tagged with services.ErrAIService.
// Malformed JSON inside a successful response is not a transport failure:
// callers decode with DecodeLLMJSON and treat its services.ErrParse error as
// a parse failure.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty content, and network
// timeouts with exponential backoff (base 1s, max 10s, up to 3 attempts by
// default). Context cancellation aborts retries immediately.
package llm
