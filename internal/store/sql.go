package store

import (
	"errors"
	"strconv"
	"strings"
)

var ErrNotReadOnly = errors.New("only SELECT and WITH queries may be run")

// CheckReadOnly rejects statements that do not start with SELECT or WITH.
func CheckReadOnly(query string) error {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return ErrNotReadOnly
	}
	switch strings.ToUpper(fields[0]) {
	case "SELECT", "WITH":
		return nil
	}
	return ErrNotReadOnly
}

// PositionalArgs orders params keyed "1", "2", ... into a slice, stopping
// at the first gap.
func PositionalArgs(params map[string]any) []any {
	args := make([]any, 0, len(params))
	for i := 1; i <= len(params); i++ {
		val, ok := params[strconv.Itoa(i)]
		if !ok {
			break
		}
		args = append(args, val)
	}
	return args
}
