package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// LoadUsernames reads one GitHub username per line from path.
// Blank lines and lines starting with '#' are skipped.
func LoadUsernames(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usernames file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var usernames []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		u := strings.TrimSpace(scanner.Text())
		if u == "" || strings.HasPrefix(u, "#") {
			continue
		}
		usernames = append(usernames, u)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read usernames file: %w", err)
	}
	return usernames, nil
}
