package command

import (
	"context"
	"strings"
)

type LocalCommandParser struct {
	BackKeywords    []string
	ExitKeywords    []string
	RestartKeywords []string
	RetryKeywords   []string
}

func NewLocalCommandParser() *LocalCommandParser {
	return &LocalCommandParser{
		BackKeywords:    []string{"戻る", "もどる", "前へ", "back", "prev"},
		ExitKeywords:    []string{"終了", "やめる", "exit", "quit"},
		RestartKeywords: []string{"最初から", "やり直す", "restart", "reset"},
		RetryKeywords:   []string{"再試行", "もう一度", "retry"},
	}
}

// ParseCommand matches the whole trimmed input, case-insensitively, against
// the keyword lists. Anything else is an answer.
func (p *LocalCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	switch {
	case matches(normalized, p.BackKeywords):
		return Back, nil
	case matches(normalized, p.ExitKeywords):
		return Exit, nil
	case matches(normalized, p.RestartKeywords):
		return Restart, nil
	case matches(normalized, p.RetryKeywords):
		return Retry, nil
	}
	return Answer, nil
}

func matches(normalized string, keywords []string) bool {
	for _, keyword := range keywords {
		if normalized == strings.ToLower(keyword) {
			return true
		}
	}
	return false
}

type FailbackCommandParser struct {
	parsers []Parser
}

func NewFailbackCommandParser(parsers ...Parser) *FailbackCommandParser {
	return &FailbackCommandParser{parsers: parsers}
}

func (p *FailbackCommandParser) ParseCommand(ctx context.Context, input string) (Command, error) {
	var lastErr error
	for _, parser := range p.parsers {
		cmd, err := parser.ParseCommand(ctx, input)
		if err == nil {
			return cmd, nil
		}
		lastErr = err
	}
	return Answer, lastErr
}
