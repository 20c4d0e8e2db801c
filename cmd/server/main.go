package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/stellarlinkco/agent-judge/api"
	"github.com/stellarlinkco/agent-judge/internal/config"
	"github.com/stellarlinkco/agent-judge/internal/evaluation"
	"github.com/stellarlinkco/agent-judge/internal/judge"
	"github.com/stellarlinkco/agent-judge/internal/llm"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr

	loadConfig                = config.Load
	openStore                 = sink.Open
	defaultProviderFromConfig = llm.DefaultProviderFromConfig
	newServer                 = api.NewServer
	runServer                 = (*api.Server).Run
)

func main() {
	osExit(runMain(os.Args[1:]))
}

func runMain(args []string) int {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)
	fs.SetOutput(stderrWriter)

	var addr string
	var configPath string
	fs.StringVar(&addr, "addr", "", "listen address (defaults to server.addr from config)")
	fs.StringVar(&configPath, "config", config.DefaultPath, "path to config file")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	st, err := openStore(cfg)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}
	defer func() { _ = st.Close() }()

	provider, err := defaultProviderFromConfig(cfg)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	judgeClient := judge.NewClient(provider,
		judge.WithMaxTokens(cfg.Evaluation.JudgeMaxTokens))
	eval := evaluation.NewEvaluator(judgeClient,
		evaluation.WithSink(st),
		evaluation.WithAgentTimeout(cfg.Evaluation.AgentTimeout))
	svc := evaluation.NewService(eval, evaluation.ProviderAgent(provider))

	srv, err := newServer(cfg, svc, st)
	if err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}

	if strings.TrimSpace(addr) == "" {
		addr = cfg.Server.Addr
	}
	if err := runServer(srv, addr); err != nil {
		fmt.Fprintln(stderrWriter, err)
		return 1
	}
	return 0
}
