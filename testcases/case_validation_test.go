package testcases

import (
	"testing"

	"github.com/tbxark/sobaguide"
)

// TestInvalidChoice 選択肢にない回答は受け付けない
func TestInvalidChoice(t *testing.T) {
	t.Parallel()
	session := NewOfflineGuide(t).NewSession()

	resp := Answer(t, session, "九州")
	if resp.State.Dialogue.StepIndex != 0 {
		t.Errorf("不正な回答で進んではいけない、実際 %d", resp.State.Dialogue.StepIndex)
	}
	if resp.Metadata["error"] == "" {
		t.Error("エラー情報が返されるべき")
	}

	// 番号でも選べる
	resp = Answer(t, session, "2", "2", "1")
	if got := resp.State.Dialogue.Answers; len(got) != 3 || got[2] != "京都市" {
		t.Errorf("番号による選択が反映されていない: %v", got)
	}
}

// TestFreeTextRequired 自由記述は既定では必須
func TestFreeTextRequired(t *testing.T) {
	t.Parallel()
	session := NewOfflineGuide(t).NewSession()

	resp := Answer(t, session, "関東", "東京都", "新宿区", "就労支援", "")
	if resp.Completed {
		t.Fatal("空の自由記述で完了してはいけない")
	}
}

// TestFreeTextOptional 自由記述を任意にした場合は空でも完了する
func TestFreeTextOptional(t *testing.T) {
	t.Parallel()
	session := NewOfflineGuide(t, sobaguide.WithOptionalFreeText()).NewSession()

	resp := Answer(t, session, "関東", "東京都", "新宿区", "就労支援", "")
	if !resp.Completed {
		t.Fatal("任意の自由記述は空でも完了するべき")
	}
	if resp.State.Dialogue.Answers[4] != "" {
		t.Errorf("空の回答が記録されるべき、実際 %q", resp.State.Dialogue.Answers[4])
	}
}
