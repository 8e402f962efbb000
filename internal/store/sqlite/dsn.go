package sqlite

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

const scheme = "sqlite://"

var errEmptyPath = errors.New("sqlite DSN has no database path")

// parseDSN turns a sqlite:// DSN into the path handed to the driver.
// Relative paths are anchored at the working directory and a query string,
// if any, is passed through untouched.
func parseDSN(dsn string) (string, error) {
	rest, ok := strings.CutPrefix(dsn, scheme)
	if !ok {
		return "", fmt.Errorf("invalid sqlite DSN scheme, expected %s", scheme)
	}

	path, query, hasQuery := strings.Cut(rest, "?")
	path, err := url.PathUnescape(path)
	if err != nil {
		return "", fmt.Errorf("unescaping path: %w", err)
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return "", errEmptyPath
	}

	if path != ":memory:" && !filepath.IsAbs(path) && !strings.HasPrefix(path, "./") {
		path = "./" + path
	}
	if hasQuery {
		return path + "?" + query, nil
	}
	return path, nil
}
