package generate

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChatModel struct {
	reply    string
	err      error
	received []*schema.Message
}

var _ model.BaseChatModel = (*fakeChatModel)(nil)

func (m *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	m.received = input
	if m.err != nil {
		return nil, m.err
	}
	return schema.AssistantMessage(m.reply, nil), nil
}

func (m *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func TestChatModelGenerator(t *testing.T) {
	cm := &fakeChatModel{reply: "【制度の名前】\n・児童扶養手当"}
	g := NewChatModelGenerator(cm, WithSystemPrompt("system"))

	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "【制度の名前】\n・児童扶養手当", text)
	require.Len(t, cm.received, 2)
	assert.Equal(t, schema.System, cm.received[0].Role)
	assert.Equal(t, "prompt", cm.received[1].Content)
}

func TestChatModelGeneratorErrors(t *testing.T) {
	boom := errors.New("quota exceeded")
	_, err := NewChatModelGenerator(&fakeChatModel{err: boom}).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, boom)

	_, err = NewChatModelGenerator(&fakeChatModel{reply: " \n "}).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestChatModelGeneratorWithoutSystemPrompt(t *testing.T) {
	cm := &fakeChatModel{reply: "ok"}
	_, err := NewChatModelGenerator(cm).WithModelOptions(model.WithTemperature(0.2)).Generate(context.Background(), "p")
	require.NoError(t, err)
	require.Len(t, cm.received, 1)
	assert.Equal(t, schema.User, cm.received[0].Role)
}

func TestStaticGenerator(t *testing.T) {
	text, err := (&StaticGenerator{Text: "hello"}).Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	_, err = (&StaticGenerator{}).Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = (&StaticGenerator{Text: "hello"}).Generate(ctx, "p")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFailbackGenerator(t *testing.T) {
	first := errors.New("first down")
	g := NewFailbackGenerator(&StaticGenerator{Err: first}, &StaticGenerator{Text: "second"})
	text, err := g.Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "second", text)

	g = NewFailbackGenerator(&StaticGenerator{Err: first}, &StaticGenerator{})
	_, err = g.Generate(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = NewFailbackGenerator().Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestInstrumentedGenerator(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	ok := Instrument(&StaticGenerator{Text: "text"}, "static", metrics)
	_, err := ok.Generate(context.Background(), "p")
	require.NoError(t, err)

	empty := Instrument(&StaticGenerator{}, "static", metrics)
	_, err = empty.Generate(context.Background(), "p")
	require.ErrorIs(t, err, ErrEmptyResponse)

	failing := Instrument(&StaticGenerator{Err: errors.New("down")}, "static", metrics)
	_, err = failing.Generate(context.Background(), "p")
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("static", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("static", StatusEmpty)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues("static", StatusError)))
}

func TestOllamaGenerator(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"【概要】\n本文"},"done":true}` + "\n"))
	}))
	defer srv.Close()

	g, err := NewOllamaGenerator(srv.URL+"/v1", "llama3", 5*time.Second, WithSystemPrompt("sys"))
	require.NoError(t, err)
	text, err := g.Generate(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "【概要】\n本文", text)
	assert.Equal(t, "llama3", got["model"])
	assert.Equal(t, false, got["stream"])
	assert.Len(t, got["messages"], 2)
}

func TestOllamaGeneratorServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"model not loaded"}`))
	}))
	defer srv.Close()

	g, err := NewOllamaGenerator(srv.URL, "llama3", 5*time.Second)
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "prompt")
	assert.Error(t, err)
}
