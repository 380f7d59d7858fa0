package server

import (
	"sync"

	"reelintake/internal/intake"
)

// registry holds one intake machine per draft token. Machines are created on
// first use and dropped after a successful submission.
type registry struct {
	mu       sync.Mutex
	machines map[string]*intake.Machine
	build    func(key string) *intake.Machine
}

func newRegistry(build func(key string) *intake.Machine) *registry {
	return &registry{
		machines: make(map[string]*intake.Machine),
		build:    build,
	}
}

func (r *registry) get(key string) *intake.Machine {
	r.mu.Lock()
	defer r.mu.Unlock()
	machine, ok := r.machines[key]
	if !ok {
		machine = r.build(key)
		r.machines[key] = machine
	}
	return machine
}

func (r *registry) remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.machines, key)
}
