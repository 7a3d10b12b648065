package testcases

import (
	"context"
	"os"
	"testing"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/tbxark/sobaguide"
	"github.com/tbxark/sobaguide/agent"
	"github.com/tbxark/sobaguide/config"
	"github.com/tbxark/sobaguide/generate"
	"github.com/tbxark/sobaguide/geo"
)

// CannedResult is a backend reply in the expected section format.
const CannedResult = "【就労支援】\n1. ハローワーク新宿*職業相談と求人紹介\n・職業訓練*受講中の給付あり\n\n【子育て支援】\n・児童手当\n＊保育園の入園相談"

// Consultation answers every step of the test questionnaire.
var Consultation = []string{"関東", "東京都", "新宿区", "就労支援", "週3日で働きたい"}

func InitChatModel(t *testing.T) *openai.ChatModel {
	if os.Getenv("SOBAGUIDE_RUN_LIVE_TESTS") != "1" {
		t.Skip("set SOBAGUIDE_RUN_LIVE_TESTS=1 to run live LLM tests")
		return nil
	}

	ctx := context.Background()
	conf, err := config.Load("../config.json")
	if err != nil {
		t.Skipf("failed to load config: %v", err)
		return nil
	}
	if conf.Backend.APIKey == "" {
		t.Skip("config.json backend.api_key is empty")
		return nil
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.Backend.APIKey,
		Model:   conf.Backend.Model,
		BaseURL: conf.Backend.BaseURL,
		Timeout: conf.Backend.Timeout.Std(),
	})
	if err != nil {
		t.Fatalf("failed to init chat model: %v", err)
		return nil
	}
	return chatModel
}

// NewTestGuide builds a guide over a small fixed geography.
func NewTestGuide(t *testing.T, gen generate.Generator, opts ...sobaguide.Option) *sobaguide.Guide {
	t.Helper()
	lookup := geo.NewStaticLookup(
		[]string{"関東", "近畿"},
		map[string][]string{
			"関東": {"東京都", "神奈川県"},
			"近畿": {"大阪府", "京都府"},
		},
		map[string][]string{
			"東京都":  {"新宿区", "世田谷区"},
			"神奈川県": {"横浜市"},
			"大阪府":  {"大阪市", "堺市"},
			"京都府":  {"京都市"},
		},
	)
	opts = append([]sobaguide.Option{
		sobaguide.WithLookup(lookup),
		sobaguide.WithCategories("就労支援", "子育て支援", "住まいの支援"),
	}, opts...)
	guide, err := sobaguide.New(gen, opts...)
	if err != nil {
		t.Fatalf("ガイドの作成に失敗: %v", err)
	}
	return guide
}

func NewOfflineGuide(t *testing.T, opts ...sobaguide.Option) *sobaguide.Guide {
	t.Helper()
	return NewTestGuide(t, &generate.StaticGenerator{Text: CannedResult}, opts...)
}

// Answer sends inputs in order and returns the last response.
func Answer(t *testing.T, session *agent.Session, inputs ...string) *agent.Response {
	t.Helper()
	var resp *agent.Response
	for _, input := range inputs {
		var err error
		resp, err = session.Send(context.Background(), input)
		if err != nil {
			t.Fatalf("入力 %q の送信に失敗: %v", input, err)
		}
	}
	return resp
}
