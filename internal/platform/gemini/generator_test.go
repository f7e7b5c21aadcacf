package gemini

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
	"google.golang.org/genai"

	"github.com/flashdeck/flashdeck-api/internal/config"
	"github.com/flashdeck/flashdeck-api/internal/generation"
)

type fakeClient struct {
	responses []*genai.GenerateContentResponse
	errs      []error
	prompts   []string
}

func (f *fakeClient) GenerateContent(_ context.Context, _ string, prompt string) (*genai.GenerateContentResponse, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	var (
		resp *genai.GenerateContentResponse
		err  error
	)
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	if i < len(f.errs) {
		err = f.errs[i]
	}
	return resp, err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: text}}},
		}},
	}
}

func newTestGenerator(t *testing.T, client contentClient, retries int) (*Generator, *[]time.Duration) {
	t.Helper()
	g, err := newGenerator(client, config.LLMConfig{
		GeminiAPIKey:      "test-key",
		ModelName:         "gemini-test",
		MaxRetries:        retries,
		RetryDelaySeconds: 1,
	}, nil)
	require.NoError(t, err)

	var slept []time.Duration
	g.sleep = func(_ context.Context, d time.Duration) error {
		slept = append(slept, d)
		return nil
	}
	return g, &slept
}

func TestExtractPairs(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{
		textResponse(`{"flashcards":[{"question":" Capital of France? ","answer":"Paris"},{"question":"","answer":"dropped"}]}`),
	}}
	g, _ := newTestGenerator(t, client, 0)

	pairs, err := g.ExtractPairs(context.Background(), "geo.txt", "Paris is the capital of France.")
	require.NoError(t, err)
	assert.Equal(t, []generation.Pair{{Question: "Capital of France?", Answer: "Paris"}}, pairs)
	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "Paris is the capital of France.")
}

func TestExtractPairsNamesFile(t *testing.T) {
	client := &fakeClient{responses: []*genai.GenerateContentResponse{textResponse(`{"flashcards":[]}`)}}
	g, _ := newTestGenerator(t, client, 0)

	pairs, err := g.ExtractPairs(context.Background(), "notes.md", "some notes")
	require.NoError(t, err)
	assert.Empty(t, pairs)
	assert.Contains(t, client.prompts[0], "notes.md")
}

func TestExtractPairsEmptyInput(t *testing.T) {
	g, _ := newTestGenerator(t, &fakeClient{}, 0)

	_, err := g.ExtractPairs(context.Background(), "blank.txt", "  \n ")
	assert.ErrorIs(t, err, generation.ErrEmptyInput)
}

func TestExtractPairsRetriesTransientErrors(t *testing.T) {
	client := &fakeClient{
		errs:      []error{errors.New("unavailable"), errors.New("unavailable"), nil},
		responses: []*genai.GenerateContentResponse{nil, nil, textResponse(`{"flashcards":[{"question":"Q","answer":"A"}]}`)},
	}
	g, slept := newTestGenerator(t, client, 3)

	pairs, err := g.ExtractPairs(context.Background(), "notes.txt", "text")
	require.NoError(t, err)
	assert.Len(t, pairs, 1)
	assert.Len(t, client.prompts, 3)
	require.Len(t, *slept, 2)
	for i, d := range *slept {
		base := time.Second << i
		assert.GreaterOrEqual(t, d, base/2)
		assert.Less(t, d, base)
	}
}

func TestExtractPairsRetriesExhausted(t *testing.T) {
	client := &fakeClient{errs: []error{errors.New("e1"), errors.New("e2"), errors.New("e3")}}
	g, _ := newTestGenerator(t, client, 2)

	_, err := g.ExtractPairs(context.Background(), "notes.txt", "text")
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Len(t, client.prompts, 3)
}

func TestExtractPairsPermanentFailures(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want error
	}{
		{"no candidates", &genai.GenerateContentResponse{}, generation.ErrInvalidResponse},
		{"blocked", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}}}, generation.ErrContentBlocked},
		{"not json", textResponse("sorry, no"), generation.ErrInvalidResponse},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{responses: []*genai.GenerateContentResponse{tc.resp, tc.resp}}
			g, _ := newTestGenerator(t, client, 1)

			_, err := g.ExtractPairs(context.Background(), "notes.txt", "text")
			assert.ErrorIs(t, err, tc.want)
			assert.Len(t, client.prompts, 1)
		})
	}
}

func TestExtractPairsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{errs: []error{context.Canceled}}
	g, _ := newTestGenerator(t, client, 3)

	_, err := g.ExtractPairs(ctx, "notes.txt", "text")
	assert.ErrorIs(t, err, generation.ErrTransientFailure)
	assert.Len(t, client.prompts, 1)
}

func TestParseResponseStripsCodeFence(t *testing.T) {
	pairs, err := parseResponse("```json\n{\"flashcards\":[{\"question\":\"Q\",\"answer\":\"A\"}]}\n```")
	require.NoError(t, err)
	assert.Equal(t, []generation.Pair{{Question: "Q", Answer: "A"}}, pairs)
}

func TestBuildPromptTruncatesLongInput(t *testing.T) {
	prompt, err := buildPrompt("big.txt", strings.Repeat("é", maxInputRunes+100))
	require.NoError(t, err)
	assert.Equal(t, maxInputRunes, strings.Count(prompt, "é"))
}

func TestNewGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), config.LLMConfig{ModelName: "m"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

func TestNewGeneratorRequiresModel(t *testing.T) {
	_, err := newGenerator(&fakeClient{}, config.LLMConfig{GeminiAPIKey: "k"}, nil)
	assert.ErrorIs(t, err, generation.ErrInvalidConfig)
}

type failingClient struct {
	calls atomic.Int32
}

func (f *failingClient) GenerateContent(context.Context, string, string) (*genai.GenerateContentResponse, error) {
	f.calls.Add(1)
	return nil, errors.New("unavailable")
}

func TestExtractPairsConcurrentRetries(t *testing.T) {
	client := &failingClient{}
	g, err := newGenerator(client, config.LLMConfig{ModelName: "gemini-test", MaxRetries: 2}, nil)
	require.NoError(t, err)
	g.sleep = func(context.Context, time.Duration) error { return nil }

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = g.ExtractPairs(context.Background(), "notes.txt", "text")
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
	}
	assert.EqualValues(t, workers*3, client.calls.Load())
}

func TestBackoffStaysInRange(t *testing.T) {
	g, _ := newTestGenerator(t, &fakeClient{}, 0)

	for attempt := 0; attempt < 4; attempt++ {
		base := time.Second << attempt
		d := g.backoff(attempt)
		assert.GreaterOrEqual(t, d, base/2)
		assert.Less(t, d, base)
	}
}
