package bot

import (
	"strings"
	"unicode"

	"github.com/kballard/go-shellquote"
	"github.com/pkg/errors"
)

// SplitArgs splits an argument string into words using shell quoting rules:
// single and double quotes group words and a backslash escapes the next character.
// An unterminated quote or a trailing backslash is an error.
func SplitArgs(argString string) ([]string, error) {
	args, err := shellquote.Split(argString)
	if err != nil {
		return nil, errors.Wrapf(err, "splitting arguments %q", argString)
	}
	return args, nil
}

// SplitCommand separates a command string into the command name and the
// argument string following it.
func SplitCommand(command string) (name, argString string) {
	command = strings.TrimSpace(command)
	i := strings.IndexFunc(command, unicode.IsSpace)
	if i < 0 {
		return command, ""
	}
	return command[:i], strings.TrimLeftFunc(command[i:], unicode.IsSpace)
}
