package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/redbadger/autodeploy/agent"
	"github.com/redbadger/autodeploy/constants"
	"github.com/redbadger/autodeploy/deployer"
	"github.com/redbadger/autodeploy/events"
	"github.com/redbadger/autodeploy/git"
	"github.com/redbadger/autodeploy/model"
	"github.com/redbadger/autodeploy/process"
	"github.com/redbadger/autodeploy/workspace"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Listen for deployment triggers",
	Long: `
Listen for deployment triggers on POST /deploy:

	POST /deploy?token=<secret>&gitUrl=<repository>&branch=<branch>&command=<script>

gitUrl is required, token only when --token is set. branch defaults to master.
Without command the working copy is deployed with "<deploy-tool> deploy",
otherwise with "<script-runner> run <command>".

With --github-secret, github push events on POST /webhooks trigger a deployment
of the pushed branch, and with --github-token their commit gets a status.
`,
	Example: `autodeploy start --port=8080 --root=/srv --token=s3cr3t --slack=https://hooks.slack.com/services/T000/B000/XXXX -v`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return start(ctx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
	addStartFlags(startCmd.Flags())
	viper.BindPFlags(startCmd.Flags())
}

func addStartFlags(f *pflag.FlagSet) {
	f.StringP("token", "t", "", "Shared secret triggers must present")
	f.IntP("port", "p", constants.DefaultPort, "Port to listen on")
	f.StringP("root", "r", constants.DefaultRoot, "Directory working copies are cloned into")
	f.BoolP("verbose", "v", false, "Display deployment information on standard output")
	f.StringP("slack", "s", "", "Send deployment logs to this chat webhook URL")
	f.String("deploy-tool", constants.DefaultDeployTool, "Tool run as \"<tool> deploy\" when no command is given")
	f.String("script-runner", constants.DefaultScriptRunner, "Runner used as \"<runner> run <command>\"")
	f.String("github-secret", "", "Secret of the github push webhook; enables POST "+constants.WebhookPath)
	f.String("github-token", "", "Github token used to set commit statuses for push deployments")
	f.String("github-api-url", constants.DefaultGithubAPIURL, "Github API URL")
}

func loadConfig() (model.Config, error) {
	cfg := model.Config{
		Port:         viper.GetInt("port"),
		Root:         viper.GetString("root"),
		Token:        viper.GetString("token"),
		Verbose:      viper.GetBool("verbose"),
		SlackURL:     viper.GetString("slack"),
		DeployTool:   viper.GetString("deploy-tool"),
		ScriptRunner: viper.GetString("script-runner"),
		GithubSecret: viper.GetString("github-secret"),
		GithubToken:  viper.GetString("github-token"),
		GithubAPIURL: viper.GetString("github-api-url"),
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.Root == "" {
		return cfg, fmt.Errorf("root cannot be empty")
	}
	if cfg.DeployTool == "" || cfg.ScriptRunner == "" {
		return cfg, fmt.Errorf("deploy-tool and script-runner cannot be empty")
	}
	return cfg, nil
}

func start(ctx context.Context, cfg model.Config) error {
	if cfg.Verbose {
		log.SetLevel(log.DebugLevel)
	}
	ws, err := workspace.Open(cfg.Root)
	if err != nil {
		return fmt.Errorf("opening root: %w", err)
	}

	bus := events.NewBus()
	if cfg.Verbose {
		bus.Subscribe(events.NewConsole(log.StandardLogger()))
	}
	if cfg.SlackURL != "" {
		slack, err := events.NewSlack(cfg.SlackURL)
		if err != nil {
			return fmt.Errorf("configuring slack: %w", err)
		}
		defer slack.Close()
		bus.Subscribe(slack)
	}

	runner := process.Exec{Env: []string{"GIT_TERMINAL_PROMPT=0"}}
	a := agent.New(cfg, bus, ws,
		git.NewSyncer(git.New(runner), ws),
		deployer.New(runner, cfg.DeployTool, cfg.ScriptRunner),
	)
	return a.Serve(ctx)
}
