package bot

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexibot/compose"
	"lexibot/daily"
	"lexibot/dispatch"
	"lexibot/mask"
	"lexibot/provider"
)

// Mock implementations for testing

type sentMessage struct {
	chatID int64
	text   string
	html   bool
}

type mockSender struct {
	sent []sentMessage
}

func (m *mockSender) SendMessage(ctx context.Context, chatID int64, text string, html bool) (int64, error) {
	m.sent = append(m.sent, sentMessage{chatID, text, html})
	return int64(len(m.sent)), nil
}

type inlineAnswer struct {
	queryID string
	results []interface{}
}

type mockAnswerer struct {
	answers []inlineAnswer
}

func (m *mockAnswerer) AnswerInline(ctx context.Context, queryID string, results []interface{}) error {
	m.answers = append(m.answers, inlineAnswer{queryID, results})
	return nil
}

type mockPipeline struct {
	err      error
	lastCmd  dispatch.Command
	lastUser int64
	ran      bool
}

func (m *mockPipeline) Run(ctx context.Context, userID int64, cmd dispatch.Command, out compose.Composer) error {
	m.ran = true
	m.lastCmd = cmd
	m.lastUser = userID
	if m.err != nil {
		return m.err
	}
	out.Title("Definitions")
	out.Word(0, provider.Definition{Headword: cmd.Text, Text: "a test definition"})
	return out.Build()
}

type mockGate struct {
	admit bool
	calls int
}

func (m *mockGate) Admit(ctx context.Context, userID int64, queryID string) bool {
	m.calls++
	return m.admit
}

type mockDaily struct {
	answer *daily.Answer
	err    error
}

func (m *mockDaily) Fresh(ctx context.Context) (*daily.Answer, error) {
	return m.answer, m.err
}

type mockStats struct {
	counts map[string]int
	err    error
}

func (m *mockStats) CountByKind(ctx context.Context, userID int64) (map[string]int, error) {
	return m.counts, m.err
}

func newTestHandler(p Pipeline, gate Gate, d DailySource, s StatsProvider) (*Handler, *mockSender, *mockAnswerer) {
	sender := &mockSender{}
	answerer := &mockAnswerer{}
	if p == nil {
		p = &mockPipeline{}
	}
	if gate == nil {
		gate = &mockGate{admit: true}
	}
	if d == nil {
		d = &mockDaily{}
	}
	if s == nil {
		s = &mockStats{}
	}
	return NewHandler(sender, answerer, p, gate, d, s), sender, answerer
}

// Tests

func TestHandleMessageLookup(t *testing.T) {
	pipeline := &mockPipeline{}
	h, sender, _ := newTestHandler(pipeline, nil, nil, nil)

	err := h.HandleMessage(context.Background(), 10, 1, "Look")
	require.NoError(t, err)

	assert.Equal(t, dispatch.WordLookup, pipeline.lastCmd.Kind)
	assert.Equal(t, "look", pipeline.lastCmd.Text, "query is lower-cased before classification")
	require.Len(t, sender.sent, 1)
	assert.True(t, sender.sent[0].html)
	assert.Contains(t, sender.sent[0].text, "a test definition")
}

func TestHandleMessageClassificationFailureIsSilent(t *testing.T) {
	pipeline := &mockPipeline{}
	h, sender, _ := newTestHandler(pipeline, nil, nil, nil)

	err := h.HandleMessage(context.Background(), 10, 1, "123")
	require.NoError(t, err)

	assert.False(t, pipeline.ran)
	assert.Empty(t, sender.sent)
}

func TestHandleMessageMaskErrorsGetCorrectiveText(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{mask.ErrWrongFormat, "can't read that pattern"},
		{mask.ErrInvalidLength, "2-15 characters"},
		{mask.ErrInvalidQuery, "at least one underscore"},
	}

	for _, tt := range tests {
		h, sender, _ := newTestHandler(&mockPipeline{err: tt.err}, nil, nil, nil)

		err := h.HandleMessage(context.Background(), 10, 1, "f.arrow")
		require.NoError(t, err)
		require.Len(t, sender.sent, 1)
		assert.Contains(t, sender.sent[0].text, tt.want)
	}
}

func TestHandleMessageFetchFailureIsGeneric(t *testing.T) {
	h, sender, _ := newTestHandler(&mockPipeline{err: errors.New("dial tcp: connection refused")}, nil, nil, nil)

	err := h.HandleMessage(context.Background(), 10, 1, "look")
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, genericErrorText, sender.sent[0].text)
	assert.NotContains(t, sender.sent[0].text, "dial tcp", "internal detail never reaches the user")
}

func TestHandleMessageStart(t *testing.T) {
	h, sender, _ := newTestHandler(nil, nil, nil, nil)

	require.NoError(t, h.HandleMessage(context.Background(), 10, 1, "/start"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "u.word")
}

func TestHandleMessageCommandWithBotSuffix(t *testing.T) {
	h, sender, _ := newTestHandler(nil, nil, nil, nil)

	require.NoError(t, h.HandleMessage(context.Background(), 10, 1, "/help@lexibot"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "u.word")
}

func TestHandleToday(t *testing.T) {
	d := &mockDaily{answer: &daily.Answer{
		Day:  "2026-08-29",
		Game: provider.GameAnswer{Solution: "crane", DaysSinceLaunch: 1531},
		Enrichment: daily.Enrichment{
			Definitions: []provider.Definition{{PartOfSpeech: "noun", Text: "a large wading bird"}},
			Excerpt:     "From Middle English crane.",
		},
	}}
	h, sender, _ := newTestHandler(nil, nil, d, nil)

	require.NoError(t, h.HandleMessage(context.Background(), 10, 1, "/today"))
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.True(t, msg.html)
	assert.Contains(t, msg.text, "<tg-spoiler>CRANE</tg-spoiler>")
	assert.Contains(t, msg.text, "a large wading bird")
	assert.Contains(t, msg.text, "#1531")
}

func TestHandleTodayFetchFailure(t *testing.T) {
	h, sender, _ := newTestHandler(nil, nil, &mockDaily{err: errors.New("upstream down")}, nil)

	require.NoError(t, h.HandleMessage(context.Background(), 10, 1, "/today"))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, genericErrorText, sender.sent[0].text)
}

func TestHandleStats(t *testing.T) {
	s := &mockStats{counts: map[string]int{"word": 3, "slang": 1}}
	h, sender, _ := newTestHandler(nil, nil, nil, s)

	require.NoError(t, h.HandleMessage(context.Background(), 10, 1, "/stats"))
	require.Len(t, sender.sent, 1)

	text := sender.sent[0].text
	assert.Contains(t, text, "word: 3")
	assert.Contains(t, text, "slang: 1")
	assert.Contains(t, text, "Total: 4")
	// Kinds render in stable order.
	assert.Less(t, strings.Index(text, "slang"), strings.Index(text, "word"))
}

func TestHandleStatsEmpty(t *testing.T) {
	h, sender, _ := newTestHandler(nil, nil, nil, &mockStats{counts: map[string]int{}})

	require.NoError(t, h.HandleMessage(context.Background(), 10, 1, "/stats"))
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].text, "No lookups yet")
}

func TestHandleInlineAnswered(t *testing.T) {
	gate := &mockGate{admit: true}
	h, _, answerer := newTestHandler(&mockPipeline{}, gate, nil, nil)

	require.NoError(t, h.HandleInline(context.Background(), "q1", 1, "look"))

	assert.Equal(t, 1, gate.calls)
	require.Len(t, answerer.answers, 1)
	assert.Equal(t, "q1", answerer.answers[0].queryID)
	assert.Len(t, answerer.answers[0].results, 1)
}

func TestHandleInlineSupersededDropsSilently(t *testing.T) {
	pipeline := &mockPipeline{}
	h, _, answerer := newTestHandler(pipeline, &mockGate{admit: false}, nil, nil)

	require.NoError(t, h.HandleInline(context.Background(), "q1", 1, "look"))

	assert.False(t, pipeline.ran, "superseded query never reaches the pipeline")
	assert.Empty(t, answerer.answers)
}

func TestHandleInlineUnclassifiableAnsweredEmpty(t *testing.T) {
	gate := &mockGate{admit: true}
	h, _, answerer := newTestHandler(&mockPipeline{}, gate, nil, nil)

	require.NoError(t, h.HandleInline(context.Background(), "q1", 1, "123"))

	assert.Equal(t, 0, gate.calls, "unclassifiable queries skip the debounce gate")
	require.Len(t, answerer.answers, 1)
	assert.Empty(t, answerer.answers[0].results)
}

func TestHandleInlineMaskErrorNotice(t *testing.T) {
	h, _, answerer := newTestHandler(&mockPipeline{err: mask.ErrInvalidQuery}, &mockGate{admit: true}, nil, nil)

	require.NoError(t, h.HandleInline(context.Background(), "q1", 1, "f.arrow"))

	require.Len(t, answerer.answers, 1)
	require.Len(t, answerer.answers[0].results, 1)
}
