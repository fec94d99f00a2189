package wordcount

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/stateworks"
	"github.com/aretw0/stateworks/pkg/dispatch"
	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/aretw0/stateworks/pkg/ports"
)

// Counter drives a word-counting engine. It only posts events and reads the
// count; the engine itself stays private. Like the engine, it is not safe for
// concurrent use.
type Counter struct {
	engine *stateworks.Engine
}

type config struct {
	key      string
	greeting io.Writer
	engine   []stateworks.Option
}

// Option configures a Counter.
type Option func(*config)

// WithStore keeps the count in store instead of memory.
func WithStore(store ports.DataStore) Option {
	return func(c *config) {
		c.engine = append(c.engine, stateworks.WithStore(store))
	}
}

// WithKey sets the register holding the count (default DefaultKey).
func WithKey(key string) Option {
	return func(c *config) {
		if key != "" {
			c.key = key
		}
	}
}

// WithGreeting enables the global print_hello action, writing to w.
func WithGreeting(w io.Writer) Option {
	return func(c *config) {
		c.greeting = w
	}
}

// WithLifecycleHooks attaches an observer to the engine.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *config) {
		c.engine = append(c.engine, stateworks.WithLifecycleHooks(hooks))
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.engine = append(c.engine, stateworks.WithLogger(logger))
	}
}

// Registry returns the dispatch mapping of the word counter.
// The print_hello action logs and continues on write errors.
func Registry(key string, greeting io.Writer) *dispatch.Registry {
	if greeting == nil {
		greeting = io.Discard
	}
	return dispatch.NewRegistry().
		Register(ActionIncrement, dispatch.Increment(key)).
		Register(ActionReadCounter, dispatch.ReadCounter(key)).
		Register(ActionHello, dispatch.Print(greeting, "Hello world from state machine"),
			dispatch.WithPolicy(domain.PolicyContinue))
}

// New builds and initializes a Counter.
func New(ctx context.Context, opts ...Option) (*Counter, error) {
	cfg := config{key: DefaultKey}
	for _, opt := range opts {
		opt(&cfg)
	}

	tbl := NewTable(cfg.greeting != nil)
	eng, err := stateworks.New(ctx, tbl, Registry(cfg.key, cfg.greeting), append(cfg.engine, stateworks.WithName("wordcount"))...)
	if err != nil {
		return nil, err
	}
	return &Counter{engine: eng}, nil
}

// Send posts the event of a single character.
func (c *Counter) Send(ctx context.Context, r rune) error {
	return c.engine.PostEvents(ctx, Classify(r))
}

// Feed posts one event per character of text.
func (c *Counter) Feed(ctx context.Context, text string) error {
	for _, r := range text {
		if err := c.Send(ctx, r); err != nil {
			return fmt.Errorf("feeding %q: %w", r, err)
		}
	}
	return nil
}

// Finish posts an end-of-input separator so that a trailing word is closed
// and the machine settles in out_word.
func (c *Counter) Finish(ctx context.Context) error {
	return c.engine.PostEvents(ctx, EventOther)
}

// Words reads the counter through the read_counter action.
func (c *Counter) Words(ctx context.Context) (int64, error) {
	return c.engine.ReadInt(ctx, ActionReadCounter)
}

// State returns the settled state of the machine, for tooling and tests.
func (c *Counter) State() domain.StateID {
	return c.engine.Inspect().State
}

// Count runs a fresh counter over text and returns the number of words.
func Count(ctx context.Context, text string, opts ...Option) (int64, error) {
	c, err := New(ctx, opts...)
	if err != nil {
		return 0, err
	}
	if err := c.Feed(ctx, text); err != nil {
		return 0, err
	}
	if err := c.Finish(ctx); err != nil {
		return 0, err
	}
	return c.Words(ctx)
}

// Reference counts words with strings.Fields, for cross-checking.
// It agrees with Count on text whose words are purely alphanumeric.
func Reference(text string) int64 {
	return int64(len(strings.Fields(text)))
}
