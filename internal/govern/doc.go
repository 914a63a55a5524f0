// Package govern protects outbound calls to rate-limited third-party
// services. It composes two independent mechanisms: a sliding-window
// limiter that throttles call admission per endpoint, and a bounded
// exponential-backoff retrier for transient failures. A Governor wires
// the two together so that every retry attempt re-enters the limiter.
package govern
