package bot

import (
	"regexp"
	"strings"
)

// NickTrigger stands for the bot's own nickname when used as a trigger.
const NickTrigger = "<nick>"

// Trigger recognises messages addressed to the bot.
type Trigger struct {
	prefix string
	re     *regexp.Regexp
}

// NewTrigger builds a Trigger for the given prefix. NickTrigger is replaced by nickname.
func NewTrigger(trigger, nickname string) *Trigger {
	if trigger == NickTrigger {
		trigger = nickname
	}

	return &Trigger{
		prefix: trigger,
		re:     regexp.MustCompile(`^` + regexp.QuoteMeta(trigger) + `[,: ]*(.*)$`),
	}
}

// String returns the literal prefix the trigger looks for.
func (t *Trigger) String() string {
	return t.prefix
}

// Match reports whether text is addressed to the bot and, if so, returns the
// command name and argument string.
func (t *Trigger) Match(text string) (name, argString string, ok bool) {
	m := t.re.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", "", false
	}

	name, argString = SplitCommand(m[1])
	if name == "" {
		return "", "", false
	}
	return name, argString, true
}
