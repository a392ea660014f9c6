package workspace

import (
	"errors"
	"testing"
)

func TestProjectName(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{"https with .git", "https://host/group/myapp.git", "myapp", false},
		{"https without .git", "https://host/group/myapp", "myapp", false},
		{"trailing slash", "https://host/group/myapp/", "myapp", false},
		{"scp style", "git@github.com:org/sample.git", "sample", false},
		{"scp style without path", "git@host:sample.git", "sample", false},
		{"dots in name", "https://host/a/my.app.git", "my.app", false},
		{"port in host", "https://host:8080/group/app.git", "app", false},
		{"ssh url with port", "ssh://git@host:2222/group/app.git", "app", false},
		{"empty", "", "", true},
		{"host only", "https://host", "", true},
		{"host only with slash", "https://host/", "", true},
		{"host and port only", "https://host:8080", "", true},
		{"only .git", "https://host/group/.git", "", true},
		{"parent dir", "https://host/group/..", "", true},
		{"shell metacharacters", "https://host/group/app;rm -rf", "", true},
		{"leading dash", "https://host/group/-app.git", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ProjectName(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ProjectName() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidProject) {
				t.Errorf("ProjectName() error = %v, want ErrInvalidProject", err)
			}
			if got != tt.want {
				t.Errorf("ProjectName() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestProjectNameIsDeterministic(t *testing.T) {
	url := "https://host/group/myapp.git"
	first, _ := ProjectName(url)
	for i := 0; i < 3; i++ {
		if got, _ := ProjectName(url); got != first {
			t.Fatalf("ProjectName() = %v, want %v", got, first)
		}
	}
}
