package command

// Registry is an ordered mapping from command name to Command.
//
// Adding a name that is already present replaces the stored command but keeps
// its original position. A Registry is not safe for concurrent use.
type Registry struct {
	order []string
	byKey map[string]Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Command)}
}

// Add merges cmd into the registry. It reports whether an existing command
// with the same name was overridden.
func (r *Registry) Add(cmd Command) bool {
	if _, exists := r.byKey[cmd.Name]; exists {
		r.byKey[cmd.Name] = cmd
		return true
	}
	r.order = append(r.order, cmd.Name)
	r.byKey[cmd.Name] = cmd
	return false
}

// Get looks up a command by name.
func (r *Registry) Get(name string) (Command, bool) {
	c, ok := r.byKey[name]
	return c, ok
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}

// Names returns command names in insertion order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// All returns a copy of all commands in insertion order.
func (r *Registry) All() []Command {
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.byKey[name])
	}
	return out
}

// Visible returns commands in insertion order, skipping hidden ones.
func (r *Registry) Visible() []Command {
	out := make([]Command, 0, len(r.order))
	for _, name := range r.order {
		if c := r.byKey[name]; !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}
