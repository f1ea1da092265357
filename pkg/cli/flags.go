package cli

import (
	"fmt"
	"strings"
	"time"
)

// GlobalOptions are the flags every command accepts.
type GlobalOptions struct {
	ConfigPath string
	Timeout    time.Duration
	Params     map[string]string
}

// DefaultTimeout bounds listen when no duration is given.
const DefaultTimeout = 30 * time.Second

// ParseGlobalFlags pulls the global flags out of args and returns the
// positional arguments that remain.
func ParseGlobalFlags(args []string) (GlobalOptions, []string, error) {
	opts := GlobalOptions{Timeout: DefaultTimeout, Params: make(map[string]string)}
	var rest []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-c", "--config", "-t", "--timeout", "-p", "--param":
			if i+1 >= len(args) {
				return opts, nil, fmt.Errorf("flag %s needs a value", arg)
			}
			i++
			if err := opts.set(arg, args[i]); err != nil {
				return opts, nil, err
			}
		default:
			rest = append(rest, arg)
		}
	}
	return opts, rest, nil
}

func (o *GlobalOptions) set(flag, value string) error {
	switch flag {
	case "-c", "--config":
		o.ConfigPath = value
	case "-t", "--timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid timeout %q: %w", value, err)
		}
		o.Timeout = d
	case "-p", "--param":
		key, val, ok := strings.Cut(value, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return fmt.Errorf("invalid param %q, expected key=value", value)
		}
		o.Params[strings.TrimSpace(key)] = val
	}
	return nil
}
