package commands

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

type Handler func(ctx context.Context, chatID int64) error

type Command struct {
	Handler     Handler
	Description string
	HelpText    string
}

// Registry maps command names to handlers. Names are normalized to carry the
// leading slash. Unknown names are reported as unhandled, never as errors.
type Registry struct {
	commands map[string]Command
	log      *logrus.Logger
}

func NewRegistry(log *logrus.Logger) *Registry {
	if log == nil {
		log = logrus.New()
	}
	return &Registry{
		commands: make(map[string]Command),
		log:      log,
	}
}

func (r *Registry) Register(name string, handler Handler, description, helpText string) {
	name = normalize(name)
	r.commands[name] = Command{
		Handler:     handler,
		Description: description,
		HelpText:    helpText,
	}
	r.log.WithField("command", name).Info("registered command")
}

// Handle runs the named command, reporting whether the name was known.
func (r *Registry) Handle(ctx context.Context, name string, chatID int64) bool {
	cmd, ok := r.commands[normalize(name)]
	if !ok {
		return false
	}
	if err := cmd.Handler(ctx, chatID); err != nil {
		r.log.WithError(err).WithField("command", name).Error("command failed")
	}
	return true
}

// AvailableCommands lists registered commands with their descriptions.
func (r *Registry) AvailableCommands() string {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		lines = append(lines, fmt.Sprintf("%s: %s", name, r.commands[name].Description))
	}
	return strings.Join(lines, "\n")
}

// HelpText returns the help text for a command, if registered.
func (r *Registry) HelpText(name string) (string, bool) {
	cmd, ok := r.commands[normalize(name)]
	if !ok {
		return "", false
	}
	return cmd.HelpText, true
}

func normalize(name string) string {
	name = strings.TrimSpace(name)
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	return name
}
