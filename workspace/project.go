package workspace

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidProject is returned when no safe project name can be derived
var ErrInvalidProject = errors.New("invalid project name")

var projectPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ProjectName derives the working copy name from a repository URL, so
//   https://host/group/myapp.git returns myapp
// and for scp-style remotes:
//   git@host:myapp.git returns myapp
// A URL with a host but no path has no project.
func ProjectName(repoURL string) (string, error) {
	s := strings.TrimRight(strings.TrimSpace(repoURL), "/")
	if _, rest, ok := strings.Cut(s, "://"); ok {
		// the authority may carry a port, only the path names the project
		s = ""
		if i := strings.LastIndex(rest, "/"); i >= 0 {
			s = rest[i+1:]
		}
	} else if i := strings.LastIndexAny(s, "/:"); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(s, ".git")
	if s == "." || s == ".." || !projectPattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q from %q", ErrInvalidProject, s, repoURL)
	}
	return s, nil
}
