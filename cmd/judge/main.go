package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/stellarlinkco/agent-judge/internal/config"
	"github.com/stellarlinkco/agent-judge/internal/evaluation"
	"github.com/stellarlinkco/agent-judge/internal/judge"
	"github.com/stellarlinkco/agent-judge/internal/llm"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

type cliState struct {
	configPath string
}

var (
	osExit                 = os.Exit
	stderrWriter io.Writer = os.Stderr
)

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(stderrWriter, err)
		osExit(1)
	}
}

func newRootCmd() *cobra.Command {
	st := &cliState{configPath: config.DefaultPath}

	root := &cobra.Command{
		Use:           "agent-judge",
		Short:         "Evaluate AI agent outputs with an LLM judge",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&st.configPath, "config", st.configPath, "path to config file")

	root.AddCommand(newRunCmd(st))
	root.AddCommand(newMetricsCmd())
	root.AddCommand(newSampleCmd())
	return root
}

// buildService wires the judge, sink, and agent function from config.
// The returned store must be closed by the caller.
func buildService(st *cliState) (*evaluation.Service, sink.Store, error) {
	cfg, err := loadConfig(st.configPath)
	if err != nil {
		return nil, nil, err
	}

	provider, err := llm.DefaultProviderFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}

	store, err := sink.Open(cfg)
	if err != nil {
		return nil, nil, err
	}

	judgeClient := judge.NewClient(provider,
		judge.WithMaxTokens(cfg.Evaluation.JudgeMaxTokens))
	eval := evaluation.NewEvaluator(judgeClient,
		evaluation.WithSink(store),
		evaluation.WithAgentTimeout(cfg.Evaluation.AgentTimeout))

	return evaluation.NewService(eval, evaluation.ProviderAgent(provider)), store, nil
}

// loadConfig falls back to built-in defaults when the default config file
// is absent; an explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if path == config.DefaultPath && errors.Is(err, fs.ErrNotExist) {
			return config.Default(), nil
		}
		return nil, err
	}
	return cfg, nil
}
