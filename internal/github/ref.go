package github

import (
	"fmt"
	"strconv"
	"strings"
)

// PRRef identifies one pull request.
type PRRef struct {
	Owner  string
	Repo   string
	Number int
}

// ParsePRRef parses the "owner/repo#number" form the CLI accepts.
func ParsePRRef(s string) (PRRef, error) {
	slash := strings.Index(s, "/")
	hash := strings.LastIndex(s, "#")
	if slash <= 0 || hash <= slash+1 || hash == len(s)-1 {
		return PRRef{}, fmt.Errorf("github: invalid pull request reference %q (want owner/repo#number)", s)
	}
	number, err := strconv.Atoi(s[hash+1:])
	if err != nil || number <= 0 {
		return PRRef{}, fmt.Errorf("github: invalid pull request number in %q", s)
	}
	return PRRef{
		Owner:  s[:slash],
		Repo:   s[slash+1 : hash],
		Number: number,
	}, nil
}
