package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/redbadger/autodeploy/constants"
	"github.com/redbadger/autodeploy/model"
)

func newTestConfig(t *testing.T, args ...string) {
	t.Helper()
	viper.Reset()
	f := pflag.NewFlagSet("start", pflag.ContinueOnError)
	addStartFlags(f)
	if err := f.Parse(args); err != nil {
		t.Fatal(err)
	}
	viper.BindPFlags(f)
	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.AutomaticEnv()
}

func TestLoadConfigDefaults(t *testing.T) {
	newTestConfig(t)
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != 80 || cfg.Root != "/opt" || cfg.Token != "" || cfg.Verbose {
		t.Errorf("defaults = %+v", cfg)
	}
	if cfg.DeployTool != "mup" || cfg.ScriptRunner != "npm" {
		t.Errorf("deploy defaults = %+v", cfg)
	}
}

func TestLoadConfigFlags(t *testing.T) {
	newTestConfig(t, "-t", "s3cr3t", "-p", "8080", "-r", "/srv", "-v", "-s", "https://hooks.example.com/x")
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "s3cr3t" || cfg.Port != 8080 || cfg.Root != "/srv" || !cfg.Verbose || cfg.SlackURL != "https://hooks.example.com/x" {
		t.Errorf("config = %+v", cfg)
	}
}

func TestLoadConfigEnv(t *testing.T) {
	os.Setenv("AUTODEPLOY_TOKEN", "from-env")
	defer os.Unsetenv("AUTODEPLOY_TOKEN")
	newTestConfig(t)
	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Token != "from-env" {
		t.Errorf("Token = %q, want from-env", cfg.Token)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"port out of range", []string{"--port", "70000"}},
		{"empty root", []string{"--root", ""}},
		{"empty deploy tool", []string{"--deploy-tool", ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newTestConfig(t, tt.args...)
			if _, err := loadConfig(); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestStartReturnsSetupErrors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		cfg  model.Config
	}{
		{"missing root", model.Config{Root: filepath.Join(dir, "missing")}},
		{"root is a file", model.Config{Root: file}},
		{"bad slack url", model.Config{Root: dir, SlackURL: "ftp://chat"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			if err := start(ctx, tt.cfg); err == nil {
				t.Error("start() error = nil, want a setup error")
			}
		})
	}
}
