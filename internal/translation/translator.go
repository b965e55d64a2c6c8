package translation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"
)

const (
	defaultTripAfter      = 3
	defaultBreakerTimeout = 30 * time.Minute
)

var refusalPhrases = []string{
	"i am unable to",
	"i cannot fulfill",
	"i cannot provide",
	"as a large language model",
}

// Error is a failed translation: an API error, an empty or refused reply,
// or a reply that lost one of the masked literals.
type Error struct {
	Provider string
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("translation via %s failed: %v", e.Provider, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Translator translates markdown documents through a Backend
type Translator struct {
	backend Backend
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

// Option configures a Translator
type Option func(*translatorOptions)

type translatorOptions struct {
	tripAfter uint32
	timeout   time.Duration
	logger    *slog.Logger
}

// WithBreaker opens the circuit after tripAfter consecutive failures and
// keeps it open for timeout.
func WithBreaker(tripAfter uint32, timeout time.Duration) Option {
	return func(o *translatorOptions) {
		o.tripAfter = tripAfter
		o.timeout = timeout
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *translatorOptions) { o.logger = l }
}

// NewTranslator creates a translator on top of backend
func NewTranslator(backend Backend, opts ...Option) *Translator {
	o := translatorOptions{
		tripAfter: defaultTripAfter,
		timeout:   defaultBreakerTimeout,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "translation-" + backend.Name(),
		MaxRequests: 1,
		Timeout:     o.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= o.tripAfter
		},
		IsSuccessful: func(err error) bool {
			// Configuration problems and cancellation say nothing about the API
			return err == nil || errors.Is(err, ErrMissingAPIKey) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Translator{
		backend: backend,
		breaker: breaker,
		logger:  logger,
	}
}

// Translate returns markdown translated to Traditional Chinese. Code spans
// and code blocks are passed through unchanged.
func (t *Translator) Translate(ctx context.Context, title, markdown string) (string, error) {
	masked, literals := MaskLiterals(markdown)
	prompt := BuildPrompt(title, masked)

	t.logger.Info("translating document", "provider", t.backend.Name(), "title", title, "bytes", len(markdown), "literals", len(literals))

	out, err := t.breaker.Execute(func() (interface{}, error) {
		return t.backend.Complete(ctx, prompt)
	})
	if err != nil {
		return "", &Error{Provider: t.backend.Name(), Err: err}
	}

	reply := cleanResponse(out.(string))
	if reply == "" {
		return "", &Error{Provider: t.backend.Name(), Err: errors.New("empty response")}
	}
	if isRefusal(reply) {
		return "", &Error{Provider: t.backend.Name(), Err: fmt.Errorf("model refused the request: %.80q", reply)}
	}

	translated, err := UnmaskLiterals(reply, literals)
	if err != nil {
		return "", &Error{Provider: t.backend.Name(), Err: err}
	}
	return translated, nil
}

// cleanResponse trims the reply and removes a fence wrapping the whole
// document, which some models add despite the instructions.
func cleanResponse(reply string) string {
	reply = strings.TrimSpace(reply)
	for _, opener := range []string{"```markdown\n", "```md\n", "```\n"} {
		if strings.HasPrefix(reply, opener) && strings.HasSuffix(reply, "\n```") {
			reply = strings.TrimSuffix(strings.TrimPrefix(reply, opener), "\n```")
			return strings.TrimSpace(reply)
		}
	}
	return reply
}

func isRefusal(reply string) bool {
	lower := strings.ToLower(reply)
	for _, phrase := range refusalPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
