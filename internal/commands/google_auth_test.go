package commands_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"faunatodo/internal/commands"
	"faunatodo/internal/config"
	"faunatodo/internal/exitcode"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func writeConfigFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestGoogleLoginCommand_MissingClientFile(t *testing.T) {
	dir := t.TempDir()
	var outBuf, errBuf bytes.Buffer

	code := (&commands.GoogleLoginCmd{}).Run(context.Background(), &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
	if outBuf.String() != "" {
		t.Errorf("expected no stdout, got %q", outBuf.String())
	}
	want := "error: " + config.OAuthClientFile + " not found in " + dir
	if !strings.HasPrefix(errBuf.String(), want) {
		t.Errorf("expected stderr to start with %q, got %q", want, errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "faunatodo google-login") {
		t.Error("expected instructions to mention google-login")
	}
}

// A token without a refresh token is not reused, so login starts the browser
// flow; the cancelled context ends it right away.
func TestGoogleLoginCommand_TokenWithoutRefresh(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, config.OAuthClientFile, testOAuthClient)
	writeConfigFile(t, dir, config.TokenFile, `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var outBuf, errBuf bytes.Buffer
	code := (&commands.GoogleLoginCmd{}).Run(ctx, &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

	if outBuf.String() == "already logged in\n" {
		t.Error("should not say 'already logged in' with token missing refresh_token")
	}
	if code != exitcode.AuthError {
		t.Errorf("expected exit code %d, got %d", exitcode.AuthError, code)
	}
}

func TestGoogleLogoutCommand_OnlyRemovesToken(t *testing.T) {
	dir := t.TempDir()
	oauthPath := writeConfigFile(t, dir, config.OAuthClientFile, testOAuthClient)
	tokenPath := writeConfigFile(t, dir, config.TokenFile, `{"access_token":"test","refresh_token":"test"}`)

	var outBuf, errBuf bytes.Buffer
	code := (&commands.GoogleLogoutCmd{}).Run(context.Background(), &config.Config{Dir: dir}, nil, nil, &outBuf, &errBuf)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if errBuf.String() != "" {
		t.Errorf("expected no stderr, got %q", errBuf.String())
	}
	if outBuf.String() != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", outBuf.String())
	}
	if _, err := os.Stat(tokenPath); !os.IsNotExist(err) {
		t.Errorf("%s should have been deleted", config.TokenFile)
	}
	if _, err := os.Stat(oauthPath); err != nil {
		t.Errorf("%s should NOT have been deleted", config.OAuthClientFile)
	}
}

func TestGoogleLogoutCommand_NotLoggedIn(t *testing.T) {
	tests := []struct {
		name  string
		quiet bool
		want  string
	}{
		{"normal", false, "not logged in\n"},
		{"quiet", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var outBuf, errBuf bytes.Buffer
			cfg := &config.Config{Dir: t.TempDir(), Quiet: tt.quiet}

			code := (&commands.GoogleLogoutCmd{}).Run(context.Background(), cfg, nil, nil, &outBuf, &errBuf)

			if code != exitcode.Success {
				t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
			}
			if errBuf.String() != "" {
				t.Errorf("expected no stderr, got %q", errBuf.String())
			}
			if outBuf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, outBuf.String())
			}
		})
	}
}
