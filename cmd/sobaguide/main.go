package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/cloudwego/eino/adk"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tbxark/sobaguide/agent"
	"github.com/tbxark/sobaguide/config"
	"github.com/tbxark/sobaguide/types"
)

func main() {
	conf := flag.String("config", "", "path to config file")
	session := flag.String("session", "", "session id to resume")
	flag.Parse()
	cfg, err := config.Load(*conf)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = startApp(ctx, cfg, *session)
	if err != nil {
		log.Fatalf("start app: %v", err)
	}
}

func startApp(ctx context.Context, conf *config.Config, sessionID string) error {
	level, err := conf.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetLogLoggerLevel(level)

	reg := prometheus.NewRegistry()
	if conf.MetricsAddr != "" {
		go serveMetrics(conf.MetricsAddr, reg)
	}
	app, err := newApp(ctx, conf, reg)
	if err != nil {
		return err
	}
	defer func() {
		_ = app.close()
	}()

	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	ctx = agent.WithStateKey(ctx, sessionID)
	slog.Info("Session started", "session", sessionID)

	runner := adk.NewRunner(ctx, adk.RunnerConfig{
		Agent: app.agent,
	})
	state, err := app.states.Read(ctx)
	if err != nil {
		return err
	}
	if state == nil {
		state = app.flow.InitState()
	}
	fmt.Println("公的支援制度ガイドへようこそ。番号または選択肢を入力してください（「戻る」「最初から」「終了」）。")
	fmt.Printf("\n%s", app.text.Response(app.flow.Describe(state)))

	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print("> ")
		input, rErr := reader.ReadString('\n')
		if rErr != nil {
			fmt.Println("入力が終了しました。")
			return nil
		}
		input = strings.TrimSpace(input)
		iter := runner.Run(ctx, []adk.Message{schema.UserMessage(input)})
		for {
			event, ok := iter.Next()
			if !ok {
				break
			}
			if event.Err != nil {
				if errors.Is(event.Err, context.Canceled) {
					return nil
				}
				return event.Err
			}
			msg, mErr := event.Output.MessageOutput.GetMessage()
			if mErr != nil {
				return mErr
			}
			fmt.Printf("\n%s", msg.Content)
		}
		state, err = app.states.Read(ctx)
		if err != nil {
			return err
		}
		if state != nil && state.Phase == types.PhaseExited {
			_ = app.states.Remove(ctx)
			return nil
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	slog.Info("Serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		slog.Error("Metrics server stopped", "error", err)
	}
}
