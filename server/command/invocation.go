package command

import (
	"strings"

	"github.com/pkg/errors"
)

// Invocation is a parsed slash command. The set is closed: TagLinkInvocation,
// ConfigureInvocation, StatsInvocation and HelpInvocation.
type Invocation interface {
	invocation()
}

// TagLinkInvocation is `/amazon <link>`.
type TagLinkInvocation struct {
	URL string
}

// ConfigureInvocation is `/affiliate configure <region>`.
type ConfigureInvocation struct {
	Region string
}

// StatsInvocation is `/affiliate stats`.
type StatsInvocation struct{}

// HelpInvocation is `/affiliate help` and any unknown subcommand.
type HelpInvocation struct{}

func (TagLinkInvocation) invocation()   {}
func (ConfigureInvocation) invocation() {}
func (StatsInvocation) invocation()     {}
func (HelpInvocation) invocation()      {}

// UsageError is a malformed invocation. Its message is shown to the user as is.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string {
	return e.msg
}

var (
	errMissingLink   = &UsageError{msg: "Please provide an Amazon link: `/amazon <link>`"}
	errMissingRegion = &UsageError{msg: "Please choose a region: `/affiliate configure <region>`"}
)

// Parse turns the command text into an Invocation.
func Parse(text string) (Invocation, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil, errors.New("empty command")
	}

	trigger := strings.TrimPrefix(fields[0], "/")
	args := fields[1:]

	switch trigger {
	case amazonCommandTrigger:
		if len(args) == 0 {
			return nil, errMissingLink
		}
		return TagLinkInvocation{URL: args[0]}, nil
	case affiliateCommandTrigger:
		return parseAffiliate(args)
	default:
		return nil, errors.Errorf("unknown command: %s", trigger)
	}
}

func parseAffiliate(args []string) (Invocation, error) {
	if len(args) == 0 {
		return HelpInvocation{}, nil
	}

	switch strings.ToLower(args[0]) {
	case "configure":
		if len(args) < 2 {
			return nil, errMissingRegion
		}
		return ConfigureInvocation{Region: strings.ToLower(args[1])}, nil
	case "stats":
		return StatsInvocation{}, nil
	default:
		return HelpInvocation{}, nil
	}
}
