package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

const (
	pubURL = "https://api.github.com"
)

var enterpriseAPI = regexp.MustCompile("^.*/v3")

// APIRoot returns the root of a given API URL
// so for public github:
//   https://api.github.com/repos/my-org/my-repo/statuses/{sha} would return https://api.github.com
// and for enterprise github:
//   https://github.my-domain/api/v3/repos/my-org/my-repo/statuses/{sha} returns https://github.my-domain/api/v3
func APIRoot(repoURL string) (APIURL string, err error) {
	if strings.HasPrefix(repoURL, pubURL) {
		APIURL = pubURL
		return
	}

	u, err := url.Parse(repoURL)
	if u == nil || err != nil {
		err = fmt.Errorf("cannot parse repoURL %v", err)
		return
	}
	match := enterpriseAPI.FindString(u.Path)
	if match == "" {
		err = fmt.Errorf("API URL is not version 3")
		return
	}
	u.Path = match
	u.RawQuery = ""
	APIURL = u.String()
	return
}
