package git

import "strings"

func appendIfMissing(slice []string, s string) []string {
	for _, ele := range slice {
		if ele == s {
			return slice
		}
	}
	return append(slice, s)
}

// files at the top level are not inside any directory
func getTopLevelDirName(path string) string {
	const separator = "/"
	if !strings.Contains(path, separator) {
		return ""
	}
	return strings.Split(path, separator)[0]
}
