package git

import (
	"fmt"

	gogit "gopkg.in/src-d/go-git.v4"
)

// Head returns the commit hash HEAD points at in the repository at dir
func Head(dir string) (string, error) {
	r, err := gogit.PlainOpen(dir)
	if err != nil {
		return "", fmt.Errorf("cannot open repository %s: %w", dir, err)
	}
	ref, err := r.Head()
	if err != nil {
		return "", fmt.Errorf("cannot resolve HEAD in %s: %w", dir, err)
	}
	return ref.Hash().String(), nil
}
