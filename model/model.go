package model

// The Trigger type carries all the information needed to run one deployment
type Trigger struct {
	// ID identifies this deployment in logs
	ID string
	// URL is the repository URL
	URL string
	// Branch is the remote branch to deploy
	Branch string
	// Token is the shared secret presented by the caller
	Token string
	// Command is the script to run for deployment, empty for the default tool
	Command string
	// Project is derived from URL and names the working copy
	Project string

	// Owner, Repo, HeadSHA and APIURL are only known for github push events
	// and are needed to report commit statuses
	Owner   string
	Repo    string
	HeadSHA string
	APIURL  string
}

// Config is the process-wide server configuration, fixed at startup
type Config struct {
	Port         int
	Root         string
	Token        string
	Verbose      bool
	SlackURL     string
	DeployTool   string
	ScriptRunner string

	GithubSecret string
	GithubToken  string
	GithubAPIURL string
}
