// Package feedlist manages the user's feed subscriptions: a plain
// channels.txt in the config dir, plus OPML import/export.
package feedlist

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Load reads the feed list at path: one URL per line, blank lines and
// #-comments skipped. A missing file is an empty list, not an error.
func Load(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error opening feed list: %w", err)
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading feed list: %w", err)
	}

	return urls, nil
}

// Save writes the feed list to path, creating parent directories.
func Save(path string, urls []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating feed list directory: %w", err)
	}

	var b strings.Builder
	for _, url := range urls {
		b.WriteString(url)
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("error writing feed list: %w", err)
	}

	return nil
}

// Add appends url to the list at path, rejecting duplicates.
func Add(path, url string) error {
	urls, err := Load(path)
	if err != nil {
		return err
	}

	for _, u := range urls {
		if u == url {
			return fmt.Errorf("feed already subscribed: %s", url)
		}
	}

	return Save(path, append(urls, url))
}

// Remove deletes url from the list at path.
func Remove(path, url string) error {
	urls, err := Load(path)
	if err != nil {
		return err
	}

	kept := urls[:0]
	for _, u := range urls {
		if u != url {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(urls) {
		return fmt.Errorf("feed not subscribed: %s", url)
	}

	return Save(path, kept)
}
