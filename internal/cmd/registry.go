package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// registry binds command names to the builders of subcommands.
//
// The set of commands is assembled once, before being attached to the root command.
type registry struct {
	names    []string
	builders map[string]func() *cobra.Command
}

func newRegistry() *registry {
	return &registry{
		builders: make(map[string]func() *cobra.Command),
	}
}

// register a subcommand. Registering the same name twice panics.
func (r *registry) register(name string, build func() *cobra.Command) {
	if _, exists := r.builders[name]; exists {
		panic(fmt.Sprintf("command %q registered twice", name))
	}

	r.names = append(r.names, name)
	r.builders[name] = build
}

// attach builds all registered subcommands, in order of registration, and adds them to the root command.
func (r *registry) attach(root *cobra.Command) {
	for _, name := range r.names {
		sub := r.builders[name]()
		if sub.Name() != name {
			panic(fmt.Sprintf("command registered as %q is named %q", name, sub.Name()))
		}

		root.AddCommand(sub)
	}
}

// Names of the registered commands, in order of registration.
func (r *registry) Names() []string {
	return append([]string(nil), r.names...)
}
