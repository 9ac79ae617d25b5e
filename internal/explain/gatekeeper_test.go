package explain

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClient struct {
	text  string
	err   error
	calls atomic.Int64

	mu         sync.Mutex
	lastPrompt string
}

func (c *stubClient) Generate(_ context.Context, prompt string) (string, error) {
	c.calls.Add(1)
	c.mu.Lock()
	c.lastPrompt = prompt
	c.mu.Unlock()
	return c.text, c.err
}

func TestAllowNilClient(t *testing.T) {
	g := NewGatekeeper(nil, zap.NewNop(), time.Minute, time.Second, 4096)
	assert.False(t, g.Allow())
}

func TestExplainSingleWinnerPerWindow(t *testing.T) {
	client := &stubClient{text: "live explanation"}
	g := NewGatekeeper(client, zap.NewNop(), time.Minute, time.Second, 4096)

	const workers = 20
	results := make([]string, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = g.Explain(context.Background(), "prompt", "en")
		}(i)
	}
	wg.Wait()

	require.EqualValues(t, 1, client.calls.Load(), "exactly one live call per cooldown window")

	live := 0
	for _, r := range results {
		switch r {
		case "live explanation":
			live++
		case Fallback("en"):
		default:
			t.Fatalf("unexpected result %q", r)
		}
	}
	assert.Equal(t, 1, live)
}

func TestExplainCooldownExpiry(t *testing.T) {
	client := &stubClient{text: "live explanation"}
	g := NewGatekeeper(client, zap.NewNop(), 10*time.Millisecond, time.Second, 4096)

	assert.Equal(t, "live explanation", g.Explain(context.Background(), "p", ""))
	assert.Equal(t, Fallback(""), g.Explain(context.Background(), "p", ""))

	time.Sleep(25 * time.Millisecond)
	assert.Equal(t, "live explanation", g.Explain(context.Background(), "p", ""))
	assert.EqualValues(t, 2, client.calls.Load())
}

func TestExplainDegradesOnError(t *testing.T) {
	client := &stubClient{err: errors.New("upstream unavailable")}
	g := NewGatekeeper(client, zap.NewNop(), 0, time.Second, 4096)

	assert.Equal(t, Fallback("en"), g.Explain(context.Background(), "p", "en"))
}

func TestExplainDegradesOnEmptyResponse(t *testing.T) {
	client := &stubClient{text: "   \n"}
	g := NewGatekeeper(client, zap.NewNop(), 0, time.Second, 4096)

	assert.Equal(t, Fallback("hi"), g.Explain(context.Background(), "p", "hi"))
}

func TestExplainTruncatesPrompt(t *testing.T) {
	client := &stubClient{text: "ok"}
	g := NewGatekeeper(client, zap.NewNop(), time.Minute, time.Second, 32)

	long := strings.Repeat("a", 100)
	g.Explain(context.Background(), long, "")

	client.mu.Lock()
	prompt := client.lastPrompt
	client.mu.Unlock()

	assert.Contains(t, prompt, "Content truncated")
	assert.Less(t, len(prompt), len(long))
}

func TestFallbackLocalization(t *testing.T) {
	english := Fallback("")

	tests := []struct {
		lang string
		want string
	}{
		{"", english},
		{"en", english},
		{"en-GB", english},
		{"hi", Fallback("hi")},
		{"not a tag!!", english},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Fallback(tt.lang), "lang %q", tt.lang)
	}

	// Each supported language gets its own translation
	assert.NotEqual(t, english, Fallback("hi"))
	assert.NotEqual(t, english, Fallback("es"))
	assert.NotEqual(t, english, Fallback("fr"))
	assert.NotEqual(t, english, Fallback("de"))

	// Regional variants match their base language
	assert.Equal(t, Fallback("fr"), Fallback("fr-CA"))
}
