package constants

const (
	// Version is the application version reported by `autodeploy version` and `autodeploy --version`
	Version = "0.2"
	// EnvPrefix is prepended to every configuration key when read from the environment
	EnvPrefix = "AUTODEPLOY"

	// DefaultPort is the port the listener binds when none is configured
	DefaultPort = 80
	// DefaultRoot is the directory working copies are cloned into
	DefaultRoot = "/opt"
	// DefaultBranch is checked out when a trigger names no branch
	DefaultBranch = "master"
	// DefaultDeployTool runs `<tool> deploy` when a trigger names no command
	DefaultDeployTool = "mup"
	// DefaultScriptRunner runs `<runner> run <command>` for named commands
	DefaultScriptRunner = "npm"
	// DefaultGithubAPIURL is the public github API root
	DefaultGithubAPIURL = "https://api.github.com/"

	// DeployPath is the route of the trigger endpoint
	DeployPath = "/deploy"
	// WebhookPath is the route of the github push webhook
	WebhookPath = "/webhooks"
	// StatusContext names the commit statuses this service creates
	StatusContext = "autodeploy"
)
