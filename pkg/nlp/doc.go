// Package nlp provides language model clients for answer generation,
// community summarization and entity extraction.
//
// This package defines the Client interface and provides implementations for
// OpenAI (and OpenAI-compatible APIs) and Ollama.
//
// # Client Wrappers
//
// The package provides wrapper clients for enhanced functionality:
//   - RetryClient: Automatic retry with exponential backoff
//   - CircuitBreakerClient: Circuit breaker pattern for fault tolerance
//
// Neither wrapper is applied implicitly. The search and community pipelines
// surface the first failure they see, so wrap the client at construction
// time if retries are wanted.
//
// # Usage
//
//	client, err := nlp.NewOpenAIClient(apiKey, nlp.Config{Model: "gpt-4o-mini"})
//	if err != nil {
//	    return err
//	}
//	retrying := nlp.NewRetryClient(client, nlp.DefaultRetryConfig())
//
//	answer, err := nlp.Generate(ctx, retrying, prompt)
//
// # Error Handling
//
// The package defines specific error types for common failure modes:
//   - RateLimitError: API rate limit exceeded
//   - EmptyResponseError: Model returned no choices
//
// Transport failures are reported as *types.UnavailableError. All of them
// support errors.Is() for type checking.
package nlp
