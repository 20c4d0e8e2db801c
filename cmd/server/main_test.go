package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stellarlinkco/agent-judge/api"
	"github.com/stellarlinkco/agent-judge/internal/config"
	"github.com/stellarlinkco/agent-judge/internal/evaluation"
	"github.com/stellarlinkco/agent-judge/internal/llm"
	"github.com/stellarlinkco/agent-judge/internal/model"
	"github.com/stellarlinkco/agent-judge/internal/sink"
)

type stubStore struct {
	closeCalled int
}

func (s *stubStore) Record(context.Context, string, map[string]any, map[string]any, []model.EvaluationScore, string) (string, error) {
	return "trace", nil
}
func (s *stubStore) GetTrace(context.Context, string) (*sink.TraceRecord, error) { return nil, nil }
func (s *stubStore) ListTraces(context.Context, sink.TraceFilter) ([]*sink.TraceRecord, error) {
	return nil, nil
}
func (s *stubStore) Close() error {
	s.closeCalled++
	return nil
}

type noopProvider struct{}

func (noopProvider) Name() string { return "noop" }
func (noopProvider) Complete(context.Context, *llm.Request) (*llm.Response, error) {
	return &llm.Response{}, nil
}

func saveServerGlobals(t *testing.T) func() {
	t.Helper()

	oldOsExit := osExit
	oldStderrWriter := stderrWriter
	oldLoadConfig := loadConfig
	oldOpenStore := openStore
	oldProviderFromConfig := defaultProviderFromConfig
	oldNewServer := newServer
	oldRunServer := runServer

	return func() {
		osExit = oldOsExit
		stderrWriter = oldStderrWriter
		loadConfig = oldLoadConfig
		openStore = oldOpenStore
		defaultProviderFromConfig = oldProviderFromConfig
		newServer = oldNewServer
		runServer = oldRunServer
	}
}

func TestRunMain_Success(t *testing.T) {
	restore := saveServerGlobals(t)
	defer restore()

	st := &stubStore{}
	var gotAddr string

	loadConfig = func(string) (*config.Config, error) { return config.Default(), nil }
	openStore = func(*config.Config) (sink.Store, error) { return st, nil }
	defaultProviderFromConfig = func(*config.Config) (llm.Provider, error) { return noopProvider{}, nil }
	newServer = func(cfg *config.Config, svc *evaluation.Service, store sink.Store) (*api.Server, error) {
		if svc == nil || store == nil {
			t.Fatal("missing wiring")
		}
		return &api.Server{}, nil
	}
	runServer = func(_ *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}

	if code := runMain(nil); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if gotAddr != ":8080" {
		t.Fatalf("addr = %q, want config default", gotAddr)
	}
	if st.closeCalled != 1 {
		t.Fatalf("store close calls = %d", st.closeCalled)
	}
}

func TestRunMain_AddrFlagOverridesConfig(t *testing.T) {
	restore := saveServerGlobals(t)
	defer restore()

	loadConfig = func(string) (*config.Config, error) { return config.Default(), nil }
	openStore = func(*config.Config) (sink.Store, error) { return &stubStore{}, nil }
	defaultProviderFromConfig = func(*config.Config) (llm.Provider, error) { return noopProvider{}, nil }
	newServer = func(*config.Config, *evaluation.Service, sink.Store) (*api.Server, error) {
		return &api.Server{}, nil
	}

	var gotAddr string
	runServer = func(_ *api.Server, addr string) error {
		gotAddr = addr
		return nil
	}

	if code := runMain([]string{"-addr", ":9999"}); code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if gotAddr != ":9999" {
		t.Fatalf("addr = %q", gotAddr)
	}
}

func TestRunMain_ConfigError(t *testing.T) {
	restore := saveServerGlobals(t)
	defer restore()

	var stderr bytes.Buffer
	stderrWriter = &stderr
	loadConfig = func(string) (*config.Config, error) { return nil, errors.New("bad config") }

	if code := runMain(nil); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if stderr.Len() == 0 {
		t.Fatal("expected error output")
	}
}

func TestRunMain_BadFlag(t *testing.T) {
	restore := saveServerGlobals(t)
	defer restore()

	var stderr bytes.Buffer
	stderrWriter = &stderr

	if code := runMain([]string{"-nope"}); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}
