// internal/pkg/flags/flags.go
package flags

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Flag describes one feature gate.
type Flag struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Enabled     bool     `json:"enabled"`
	// Environments restricts the flag to the listed deployment environments
	// when non-empty.
	Environments []string `json:"environments,omitempty"`
	// AllowedUsers is an exclusive override: when non-empty and the caller
	// supplies a user id, only list membership matters.
	AllowedUsers []string `json:"allowed_users,omitempty"`
	// RolloutPercentage buckets requests 0-99 by request id when set.
	RolloutPercentage *int `json:"rollout_percentage,omitempty"`
}

// Context carries the per-request identifiers evaluation can key on.
type Context struct {
	UserID    string
	RequestID string
}

// Registry evaluates feature flags for one deployment environment. It is
// constructed explicitly and injected into handlers; there is no package
// level singleton. The mutex guards the ops override path.
type Registry struct {
	mu          sync.RWMutex
	environment string
	flags       map[string]Flag
	defaults    map[string]Flag
	overrides   map[string]map[string]Flag
	logger      *logrus.Logger
}

// NewRegistry builds a registry from defaults plus the override block for
// the active environment, shallow-merged per flag name.
func NewRegistry(environment string, defaults map[string]Flag, overrides map[string]map[string]Flag, logger *logrus.Logger) *Registry {
	r := &Registry{
		environment: environment,
		defaults:    defaults,
		overrides:   overrides,
		logger:      logger,
	}
	r.flags = r.compose()
	return r
}

func (r *Registry) compose() map[string]Flag {
	flags := make(map[string]Flag, len(r.defaults))
	for name, flag := range r.defaults {
		flags[name] = flag
	}
	if envFlags, ok := r.overrides[r.environment]; ok {
		for name, flag := range envFlags {
			flags[name] = flag
		}
	}
	return flags
}

// IsEnabled reports whether a flag is on for the given request context.
// Unknown flags are off and logged, never an error.
func (r *Registry) IsEnabled(name string, ctx Context) bool {
	r.mu.RLock()
	flag, ok := r.flags[name]
	r.mu.RUnlock()

	if !ok {
		if r.logger != nil {
			r.logger.WithField("flag", name).Warn("Unknown feature flag requested")
		}
		return false
	}

	if !flag.Enabled {
		return false
	}

	if len(flag.Environments) > 0 && !contains(flag.Environments, r.environment) {
		return false
	}

	// A user allow-list, when present and a user id is supplied, decides
	// outright. This branch returns even for non-members, bypassing any
	// percentage rollout.
	if ctx.UserID != "" && len(flag.AllowedUsers) > 0 {
		return contains(flag.AllowedUsers, ctx.UserID)
	}

	if flag.RolloutPercentage != nil && ctx.RequestID != "" {
		return Bucket(ctx.RequestID) < *flag.RolloutPercentage
	}

	return true
}

// Names lists every registered flag name. Callers evaluate each name against
// their own request context; the registry does not pre-resolve here.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.flags))
	for name := range r.flags {
		names = append(names, name)
	}
	return names
}

// Get returns the flag definition for the ops API.
func (r *Registry) Get(name string) (Flag, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	flag, ok := r.flags[name]
	return flag, ok
}

// Override force-sets a flag's enabled bit in place. It is an ops/test
// escape hatch; unknown names are rejected.
func (r *Registry) Override(name string, enabled bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	flag, ok := r.flags[name]
	if !ok {
		return false
	}
	flag.Enabled = enabled
	r.flags[name] = flag
	return true
}

// Reset restores the default + environment-override composition, discarding
// any overrides applied since construction.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flags = r.compose()
}

// Bucket maps an identifier to a stable 0-99 bucket. The hash is the
// rolling 31-multiplier accumulator over the characters with 32-bit
// wraparound, folded non-negative by absolute value. Not cryptographic;
// only bucket assignment depends on it.
func Bucket(id string) int {
	var h int32
	for _, c := range id {
		h = h*31 + int32(c)
	}
	b := int(h % 100)
	if b < 0 {
		b = -b
	}
	return b
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
