package testcases

import (
	"context"
	"errors"
	"testing"

	"github.com/tbxark/sobaguide"
	"github.com/tbxark/sobaguide/agent"
	"github.com/tbxark/sobaguide/generate"
	"github.com/tbxark/sobaguide/types"
)

// TestBackendFailure バックエンドの失敗は固定メッセージで表示される
func TestBackendFailure(t *testing.T) {
	t.Parallel()
	gen := &generate.StaticGenerator{Err: errors.New("connection refused")}
	session := NewTestGuide(t, gen).NewSession()

	resp := Answer(t, session, Consultation...)
	if !resp.State.Failed {
		t.Fatal("失敗として記録されるべき")
	}
	if len(resp.Blocks) != 1 {
		t.Fatalf("期待ブロック数 1、実際 %d", len(resp.Blocks))
	}
	block, ok := resp.Blocks[0].(*types.ErrorBlock)
	if !ok || block.Message != agent.FallbackMessage {
		t.Errorf("フォールバックメッセージが表示されるべき: %#v", resp.Blocks[0])
	}
}

// TestFailbackBackend 一つ目が失敗したら次のバックエンドを使う
func TestFailbackBackend(t *testing.T) {
	t.Parallel()
	gen := generate.NewFailbackGenerator(
		&generate.StaticGenerator{Err: errors.New("quota exceeded")},
		&generate.StaticGenerator{Text: CannedResult},
	)
	session := NewTestGuide(t, gen).NewSession()

	resp := Answer(t, session, Consultation...)
	if resp.State.Failed || len(resp.Blocks) != 2 {
		t.Errorf("二つ目のバックエンドの結果が表示されるべき: %#v", resp.Blocks)
	}
}

// TestMalformedSections 見出しのないセクションだけがエラー表示になる
func TestMalformedSections(t *testing.T) {
	t.Parallel()
	raw := "はじめに確認してください\n\n【就労支援】\n・ハローワーク\n\n【見出しが閉じていない\n・内容"
	guide := NewTestGuide(t, &generate.StaticGenerator{Text: raw}, sobaguide.WithFallbackMessage("unused"))
	session := guide.NewSession()

	resp := Answer(t, session, Consultation...)
	kinds := make([]types.BlockKind, 0, len(resp.Blocks))
	for _, block := range resp.Blocks {
		kinds = append(kinds, block.Kind())
	}
	want := []types.BlockKind{types.BlockError, types.BlockSection, types.BlockError}
	if len(kinds) != len(want) {
		t.Fatalf("ブロック種別: 期待 %v、実際 %v", want, kinds)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("ブロック %d: 期待 %s、実際 %s", i, want[i], kinds[i])
		}
	}
	if section := resp.Blocks[1].(*types.SectionBlock); section.Category != 0 {
		t.Errorf("最初の見出し付きセクションのカテゴリは 0、実際 %d", section.Category)
	}
}

// TestRetryAfterFailure 失敗後に再試行できる
func TestRetryAfterFailure(t *testing.T) {
	t.Parallel()
	calls := 0
	gen := generate.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("timeout")
		}
		return CannedResult, nil
	})
	session := NewTestGuide(t, gen).NewSession()

	resp := Answer(t, session, Consultation...)
	if !resp.State.Failed {
		t.Fatal("一回目は失敗するべき")
	}
	resp = Answer(t, session, "再試行")
	if resp.State.Failed || resp.State.Result != CannedResult {
		t.Errorf("再試行で結果が表示されるべき: %+v", resp.State)
	}
}
