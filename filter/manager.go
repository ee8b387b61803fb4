package filter

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
)

// Preset is a named filter expression as found in the config file
type Preset struct {
	Expression  string
	Description string
}

type registeredPreset struct {
	filter      CompiledFilter
	description string
}

// PresetInfo describes a registered preset
type PresetInfo struct {
	Name        string
	Expression  string
	Description string
}

// Manager holds the named filter presets and resolves the filter to use for a
// command
type Manager struct {
	compiler  Compiler
	evaluator *Evaluator
	presets   map[string]registeredPreset
	mu        sync.RWMutex
}

// ManagerOption configures a filter manager
type ManagerOption func(*Manager)

// WithCompiler sets a custom compiler
func WithCompiler(compiler Compiler) ManagerOption {
	return func(m *Manager) {
		m.compiler = compiler
	}
}

// WithEvaluator sets a custom evaluator
func WithEvaluator(evaluator *Evaluator) ManagerOption {
	return func(m *Manager) {
		m.evaluator = evaluator
	}
}

// NewManager creates a new filter manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		compiler:  NewExprCompiler(WithCache(100)),
		evaluator: NewEvaluator(),
		presets:   make(map[string]registeredPreset),
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Preset names are case-insensitive; viper lowercases config keys anyway.
func presetKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// RegisterPreset registers a new preset or replaces an existing one
func (m *Manager) RegisterPreset(name string, preset Preset) error {
	filter, err := m.compiler.Compile(preset.Expression)
	if err != nil {
		return fmt.Errorf("failed to compile preset '%s': %w", name, err)
	}

	m.mu.Lock()
	m.presets[presetKey(name)] = registeredPreset{filter: filter, description: preset.Description}
	m.mu.Unlock()

	return nil
}

// RegisterPresets registers multiple presets at once. Nothing is registered
// if any of them fails to compile.
func (m *Manager) RegisterPresets(presets map[string]Preset) error {
	compiled := make(map[string]registeredPreset, len(presets))

	// Compile all presets first
	for name, preset := range presets {
		filter, err := m.compiler.Compile(preset.Expression)
		if err != nil {
			return fmt.Errorf("failed to compile preset '%s': %w", name, err)
		}
		compiled[presetKey(name)] = registeredPreset{filter: filter, description: preset.Description}
	}

	m.mu.Lock()
	for name, preset := range compiled {
		m.presets[name] = preset
	}
	m.mu.Unlock()

	return nil
}

// GetPreset returns a compiled preset by name
func (m *Manager) GetPreset(name string) (CompiledFilter, bool) {
	m.mu.RLock()
	preset, exists := m.presets[presetKey(name)]
	m.mu.RUnlock()
	return preset.filter, exists
}

// ListPresets returns all registered presets sorted by name
func (m *Manager) ListPresets() []PresetInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	infos := make([]PresetInfo, 0, len(m.presets))
	for name, preset := range m.presets {
		infos = append(infos, PresetInfo{
			Name:        name,
			Expression:  preset.filter.Expression(),
			Description: preset.description,
		})
	}
	slices.SortFunc(infos, func(a, b PresetInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	return infos
}

// Resolve picks the filter for a command. Priority: an explicit expression,
// then a named preset, then the fallback expression. It returns nil without
// error when none of them is set.
func (m *Manager) Resolve(expression, preset, fallback string) (CompiledFilter, error) {
	switch {
	case strings.TrimSpace(expression) != "":
		return m.compiler.Compile(expression)
	case preset != "":
		filter, ok := m.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("preset '%s' not found in config", preset)
		}
		return filter, nil
	case strings.TrimSpace(fallback) != "":
		return m.compiler.Compile(fallback)
	default:
		return nil, nil
	}
}

// Apply filters records; a nil filter matches everything
func (m *Manager) Apply(ctx context.Context, filter Filter, records []Record) ([]Record, error) {
	if filter == nil {
		return records, nil
	}
	return m.evaluator.Apply(ctx, filter, records)
}
