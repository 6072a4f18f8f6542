// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeranaias/bouncer/internal/config"
	"github.com/jeranaias/bouncer/internal/greeting"
)

// =============================================================================
// ARG PARSER TESTS (args.go)
// =============================================================================

func TestArgParser_BasicParsing(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		bools    []string
		wantSub  string
		validate func(*testing.T, *ArgParser)
	}{
		{
			name:    "simple subcommand",
			args:    []string{"show"},
			wantSub: "show",
		},
		{
			name:    "subcommand with flag",
			args:    []string{"get", "--timeout", "5"},
			wantSub: "get",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("timeout") != "5" {
					t.Errorf("Flag(timeout) = %q, want %q", p.Flag("timeout"), "5")
				}
				if n, err := p.FlagInt("timeout"); err != nil || n != 5 {
					t.Errorf("FlagInt(timeout) = %d, %v", n, err)
				}
			},
		},
		{
			name:    "flag with equals",
			args:    []string{"set", "--key=ui.fps"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if p.Flag("key") != "ui.fps" {
					t.Errorf("Flag(key) = %q, want %q", p.Flag("key"), "ui.fps")
				}
			},
		},
		{
			name:    "declared boolean does not eat the next arg",
			args:    []string{"--force", "init"},
			bools:   []string{"force"},
			wantSub: "init",
			validate: func(t *testing.T, p *ArgParser) {
				if !p.BoolFlag("force") {
					t.Error("BoolFlag(force) should be true")
				}
			},
		},
		{
			name:    "explicit boolean",
			args:    []string{"--raw=false"},
			wantSub: "",
			validate: func(t *testing.T, p *ArgParser) {
				if p.BoolFlag("raw") || !p.HasFlag("raw") {
					t.Error("raw should be present and false")
				}
			},
		},
		{
			name:    "positional after double dash",
			args:    []string{"set", "server.message", "--", "--not-a-flag"},
			wantSub: "set",
			validate: func(t *testing.T, p *ArgParser) {
				if got := strings.Join(p.PositionalFrom(1), " "); got != "server.message --not-a-flag" {
					t.Errorf("PositionalFrom(1) = %q", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewArgParser(tt.args, tt.bools...)
			if p.Subcommand() != tt.wantSub {
				t.Errorf("Subcommand() = %q, want %q", p.Subcommand(), tt.wantSub)
			}
			if tt.validate != nil {
				tt.validate(t, p)
			}
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"true", "YES", "y", "1", "on"} {
		if v, err := ParseBoolString(s); err != nil || !v {
			t.Errorf("ParseBoolString(%q) = %v, %v", s, v, err)
		}
	}
	for _, s := range []string{"false", "no", "N", "0", "off"} {
		if v, err := ParseBoolString(s); err != nil || v {
			t.Errorf("ParseBoolString(%q) = %v, %v", s, v, err)
		}
	}
	if _, err := ParseBoolString("maybe"); err == nil {
		t.Error("expected error for maybe")
	}
}

// =============================================================================
// COMMAND PARSING (cli.go)
// =============================================================================

func TestParseArgs(t *testing.T) {
	tests := []struct {
		args    []string
		wantCmd Command
		check   func(*testing.T, Args)
	}{
		{nil, CmdTUI, nil},
		{[]string{"tui"}, CmdTUI, nil},
		{[]string{"fetch", "--json"}, CmdFetch, func(t *testing.T, a Args) {
			assert.True(t, a.JSON)
		}},
		{[]string{"--api", "http://x.test", "get"}, CmdFetch, func(t *testing.T, a Args) {
			assert.Equal(t, "http://x.test", a.APIURL)
		}},
		{[]string{"status", "--api=http://y.test"}, CmdStatus, func(t *testing.T, a Args) {
			assert.Equal(t, "http://y.test", a.APIURL)
		}},
		{[]string{"s"}, CmdStatus, nil},
		{[]string{"config", "set", "server.message", "hello", "world"}, CmdConfig, func(t *testing.T, a Args) {
			assert.Equal(t, "set", a.Subcommand)
			assert.Equal(t, "server.message", a.ConfigKey)
			assert.Equal(t, "hello world", a.ConfigVal)
		}},
		{[]string{"-v"}, CmdVersion, nil},
		{[]string{"fetch", "-v"}, CmdFetch, func(t *testing.T, a Args) {
			assert.True(t, a.Verbose)
		}},
		{[]string{"--help"}, CmdHelp, nil},
		{[]string{"statsu"}, CmdHelp, func(t *testing.T, a Args) {
			assert.Equal(t, "statsu", a.Unknown)
		}},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd, args := ParseArgs(tt.args)
			assert.Equal(t, tt.wantCmd, cmd, cmd.String())
			if tt.check != nil {
				tt.check(t, args)
			}
		})
	}
}

func TestSuggestCommand(t *testing.T) {
	tests := map[string]string{
		"statsu":  "status",
		"fecth":   "fetch",
		"hepl":    "help",
		"confg":   "config",
		"xyzzy":   "",
		"x":       "",
		"status":  "",
		"hallo":   "fetch",
		"gt":      "fetch",
		"verison": "version",
	}
	for in, want := range tests {
		if got := SuggestCommand(in); got != want {
			t.Errorf("SuggestCommand(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSuggestConfigSubcommand(t *testing.T) {
	assert.Equal(t, "show", SuggestConfigSubcommand("shwo"))
	assert.Equal(t, "init", SuggestConfigSubcommand("inti"))
	assert.Equal(t, "", SuggestConfigSubcommand("path"))
	assert.Equal(t, "", SuggestConfigSubcommand("frobnicate"))
}

func TestEditDistance(t *testing.T) {
	assert.Equal(t, 0, editDistance("fetch", "fetch"))
	assert.Equal(t, 3, editDistance("", "tui"))
	assert.Equal(t, 1, editDistance("tui", "tu"))
	assert.Equal(t, 2, editDistance("hepl", "help"))
}

// =============================================================================
// ERRORS (errors.go)
// =============================================================================

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"validation", &ValidationError{Field: "x"}, ExitUsageError},
		{"not found", &NotFoundError{Resource: "key"}, ExitNotFoundError},
		{"config", fmt.Errorf("invalid config: %w", config.ValidateErrors{{Field: "ui.fps"}}), ExitConfigError},
		{"timeout", greeting.ErrTimeout, ExitTimeoutError},
		{"connection", &greeting.ClientError{Type: greeting.ErrTypeConnection, Message: "failed to fetch"}, ExitNetworkError},
		{"404", &greeting.ClientError{Type: greeting.ErrTypeStatus, StatusCode: 404}, ExitNotFoundError},
		{"503 wrapped", &CommandError{Command: "fetch", Err: &greeting.ClientError{Type: greeting.ErrTypeStatus, StatusCode: 503}}, ExitNetworkError},
		{"config file", &ConfigError{Err: errors.New("bad toml")}, ExitConfigError},
		{"deadline", fmt.Errorf("fetch: %w", context.DeadlineExceeded), ExitTimeoutError},
		{"generic", errors.New("boom"), ExitGeneralError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GetExitCode(tt.err))
		})
	}
}

func TestDisplayError(t *testing.T) {
	var buf bytes.Buffer
	DisplayError(&buf, &NotFoundError{Resource: "config key", ID: "ui.nope"}, true)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "not_found_error", out["error_type"])
	assert.Equal(t, float64(ExitNotFoundError), out["exit_code"])

	buf.Reset()
	DisplayError(&buf, errors.New("boom"), false)
	assert.Contains(t, buf.String(), "boom")
}

// =============================================================================
// COMMAND HANDLERS
// =============================================================================

// capture redirects command output for the duration of the test.
func capture(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	oldOut, oldErr := stdout, stderr
	stdout, stderr = &out, &errOut
	t.Cleanup(func() { stdout, stderr = oldOut, oldErr })
	return &out, &errOut
}

// withConfig installs a global config whose files live in a temp dir.
func withConfig(t *testing.T, baseURL string) *config.Config {
	t.Helper()
	t.Setenv("BOUNCER_CONFIG_DIR", t.TempDir())
	cfg := config.Default()
	if baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	cfg.API.TimeoutSecs = 2
	config.SetGlobal(cfg)
	t.Cleanup(config.ResetGlobalForTesting)
	return cfg
}

func apiServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/hello", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"Hello from the API","timestamp":"2025-01-01T00:00:00Z"}`)
	})
	mux.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"Healthy","environment":"Development","timestamp":"2025-01-01T00:00:00Z"}`)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestHandleFetch(t *testing.T) {
	srv := apiServer(t)
	withConfig(t, srv.URL)
	out, _ := capture(t)

	require.NoError(t, HandleFetch(Args{}))
	assert.Equal(t, "Hello from the API\n", out.String())
}

func TestHandleFetch_Raw(t *testing.T) {
	srv := apiServer(t)
	withConfig(t, srv.URL)
	out, _ := capture(t)
	ForceColorsEnabled(false)
	t.Cleanup(func() { ForceColorsEnabled(false) })

	require.NoError(t, HandleFetch(Args{Raw: []string{"--raw"}}))
	assert.Contains(t, out.String(), `"message": "Hello from the API"`)
}

func TestHighlightJSON(t *testing.T) {
	ForceColorsEnabled(true)
	t.Cleanup(func() { ForceColorsEnabled(false) })

	out := highlightJSON([]byte(`{"message":"hi"}`))
	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "message")

	assert.Equal(t, "not json", highlightJSON([]byte("not json")))
}

func TestHandleFetch_JSON(t *testing.T) {
	srv := apiServer(t)
	withConfig(t, srv.URL)
	out, _ := capture(t)

	require.NoError(t, HandleFetch(Args{JSON: true}))

	var resp struct {
		Success bool      `json:"success"`
		Data    FetchData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Hello from the API", resp.Data.Message)
	assert.Equal(t, srv.URL, resp.Data.BaseURL)
}

func TestHandleFetch_FlagOverridesConfig(t *testing.T) {
	srv := apiServer(t)
	withConfig(t, "http://127.0.0.1:1")
	out, _ := capture(t)

	require.NoError(t, HandleFetch(Args{APIURL: srv.URL + "/"}))
	assert.Contains(t, out.String(), "Hello from the API")
}

func TestHandleFetch_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	withConfig(t, srv.URL)
	capture(t)

	err := HandleFetch(Args{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Equal(t, ExitNetworkError, GetExitCode(err))
}

func TestHandleStatus(t *testing.T) {
	srv := apiServer(t)
	withConfig(t, srv.URL)
	out, _ := capture(t)

	require.NoError(t, HandleStatus(Args{}))
	assert.Contains(t, out.String(), "Healthy")
	assert.Contains(t, out.String(), "Development")
}

func TestHandleStatus_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	withConfig(t, url)
	out, _ := capture(t)

	err := HandleStatus(Args{JSON: true})
	require.Error(t, err)

	var resp JSONResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
}

func TestHandleConfig_SetGetPath(t *testing.T) {
	withConfig(t, "")
	out, _ := capture(t)

	require.NoError(t, HandleConfig(Args{Subcommand: "set", ConfigKey: "ui.fps", ConfigVal: "30"}))
	assert.Equal(t, 30, config.Global().UI.FPS)

	dir := os.Getenv("BOUNCER_CONFIG_DIR")
	_, err := os.Stat(filepath.Join(dir, "config.toml"))
	require.NoError(t, err)

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "get", ConfigKey: "ui.fps"}))
	assert.Equal(t, "30\n", out.String())

	out.Reset()
	require.NoError(t, HandleConfig(Args{Subcommand: "path"}))
	assert.Equal(t, filepath.Join(dir, "config.toml")+"\n", out.String())
}

func TestHandleConfig_Errors(t *testing.T) {
	withConfig(t, "")
	capture(t)

	err := HandleConfig(Args{Subcommand: "get"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(Args{Subcommand: "get", ConfigKey: "ui.nope"})
	assert.Equal(t, ExitNotFoundError, GetExitCode(err))

	err = HandleConfig(Args{Subcommand: "set", ConfigKey: "ui.fps", ConfigVal: "500"})
	assert.Equal(t, ExitConfigError, GetExitCode(err))

	err = HandleConfig(Args{Subcommand: "bogus"})
	assert.Equal(t, ExitUsageError, GetExitCode(err))

	err = HandleConfig(Args{Subcommand: "sett"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "bouncer config set", verr.Example)
}

func TestHandleConfig_Init(t *testing.T) {
	withConfig(t, "")
	capture(t)

	require.NoError(t, HandleConfig(Args{Subcommand: "init"}))
	err := HandleConfig(Args{Subcommand: "init"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, HandleConfig(Args{Subcommand: "init", Raw: []string{"init", "--force"}}))
}

func TestHandleConfig_ShowJSON(t *testing.T) {
	withConfig(t, "http://api.test")
	out, _ := capture(t)

	require.NoError(t, HandleConfig(Args{Subcommand: "show", JSON: true}))
	var resp struct {
		Data ConfigData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "http://api.test", resp.Data.Config.API.BaseURL)
}

func TestHandleVersion(t *testing.T) {
	out, _ := capture(t)
	require.NoError(t, HandleVersion(Args{}))
	assert.Contains(t, out.String(), "bouncer version "+Version)

	out.Reset()
	require.NoError(t, HandleVersion(Args{JSON: true}))
	var resp struct {
		Data VersionData `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, Version, resp.Data.Version)
}

func TestHandleHelp(t *testing.T) {
	out, errOut := capture(t)
	require.NoError(t, HandleHelp(Args{}))
	assert.Contains(t, out.String(), "USAGE")

	err := HandleHelp(Args{Unknown: "fecth"})
	require.Error(t, err)
	assert.Contains(t, errOut.String(), `Did you mean "fetch"?`)
	assert.Equal(t, ExitUsageError, GetExitCode(err))
}
