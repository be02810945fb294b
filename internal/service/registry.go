package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/GriffinCanCode/vshell/internal/shared/types"
)

// Registry manages service discovery and execution
type Registry struct {
	services sync.Map // service ID -> Provider
	commands sync.Map // command name -> types.Tool
	mu       sync.Mutex
}

// Provider interface for service implementations
type Provider interface {
	Definition() types.Service
	Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error)
}

// NewRegistry creates a new service registry
func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a service provider and indexes its commands. A command
// name already claimed by another service is an error.
func (r *Registry) Register(provider Provider) error {
	def := provider.Definition()
	if def.ID == "" {
		return fmt.Errorf("service ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, tool := range def.Tools {
		if !strings.HasPrefix(tool.ID, def.ID+".") {
			return fmt.Errorf("tool %s does not belong to service %s", tool.ID, def.ID)
		}
		if tool.Command == "" {
			continue
		}
		if existing, ok := r.commands.Load(tool.Command); ok && serviceOf(existing.(types.Tool).ID) != def.ID {
			return fmt.Errorf("command %q already registered by %s", tool.Command, existing.(types.Tool).ID)
		}
	}

	if old, ok := r.services.Load(def.ID); ok {
		r.dropCommands(old.(Provider).Definition())
	}
	r.services.Store(def.ID, provider)
	for _, tool := range def.Tools {
		if tool.Command != "" {
			r.commands.Store(tool.Command, tool)
		}
	}
	return nil
}

// Unregister removes a service provider
func (r *Registry) Unregister(serviceID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.services.LoadAndDelete(serviceID); ok {
		r.dropCommands(old.(Provider).Definition())
	}
}

func (r *Registry) dropCommands(def types.Service) {
	for _, tool := range def.Tools {
		if tool.Command != "" {
			r.commands.Delete(tool.Command)
		}
	}
}

// Get retrieves a service by ID
func (r *Registry) Get(serviceID string) (Provider, bool) {
	val, ok := r.services.Load(serviceID)
	if !ok {
		return nil, false
	}
	return val.(Provider), true
}

// List returns registered services sorted by ID
func (r *Registry) List(category *types.Category) []types.Service {
	var services []types.Service
	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if category == nil || def.Category == *category {
			services = append(services, def)
		}
		return true
	})
	sort.Slice(services, func(i, j int) bool { return services[i].ID < services[j].ID })
	return services
}

// Command resolves a shell command name to its tool.
func (r *Registry) Command(name string) (types.Tool, bool) {
	val, ok := r.commands.Load(name)
	if !ok {
		return types.Tool{}, false
	}
	return val.(types.Tool), true
}

// Commands returns every command-bound tool sorted by command name.
func (r *Registry) Commands() []types.Tool {
	var tools []types.Tool
	r.commands.Range(func(_, value interface{}) bool {
		tools = append(tools, value.(types.Tool))
		return true
	})
	sort.Slice(tools, func(i, j int) bool { return tools[i].Command < tools[j].Command })
	return tools
}

// Discover finds relevant services for a keyword query
func (r *Registry) Discover(intent string, limit int) []types.Service {
	type scoredService struct {
		service types.Service
		score   float64
	}

	intentLower := strings.ToLower(intent)
	var results []scoredService

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		if score := r.calculateRelevance(intentLower, def); score > 0 {
			results = append(results, scoredService{service: def, score: score})
		}
		return true
	})

	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].service.ID < results[j].service.ID
	})

	output := make([]types.Service, 0, limit)
	for i := 0; i < len(results) && i < limit; i++ {
		output = append(output, results[i].service)
	}
	return output
}

// Apropos returns command tools whose name or description mentions the
// keyword, sorted by command.
func (r *Registry) Apropos(keyword string) []types.Tool {
	keyword = strings.ToLower(keyword)
	var out []types.Tool
	for _, tool := range r.Commands() {
		if strings.Contains(tool.Command, keyword) || strings.Contains(strings.ToLower(tool.Description), keyword) {
			out = append(out, tool)
		}
	}
	return out
}

// Execute runs a service tool
func (r *Registry) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	serviceID := serviceOf(toolID)
	if serviceID == "" {
		return &types.Result{
			Success: false,
			Error:   stringPtr("invalid tool ID format"),
		}, fmt.Errorf("invalid tool ID format: %s", toolID)
	}

	provider, ok := r.Get(serviceID)
	if !ok {
		return &types.Result{
			Success: false,
			Error:   stringPtr(fmt.Sprintf("service not found: %s", serviceID)),
		}, fmt.Errorf("service not found: %s", serviceID)
	}

	return provider.Execute(ctx, toolID, params, appCtx)
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	var total, totalTools, totalCommands int
	categories := make(map[string]int)

	r.services.Range(func(_, value interface{}) bool {
		def := value.(Provider).Definition()
		total++
		totalTools += len(def.Tools)
		categories[string(def.Category)]++
		return true
	})
	r.commands.Range(func(_, _ interface{}) bool {
		totalCommands++
		return true
	})

	return map[string]interface{}{
		"total_services": total,
		"total_tools":    totalTools,
		"total_commands": totalCommands,
		"categories":     categories,
	}
}

func (r *Registry) calculateRelevance(intent string, service types.Service) float64 {
	score := 0.0

	if strings.Contains(intent, service.ID) || strings.Contains(intent, strings.ToLower(service.Name)) {
		score += 10.0
	}

	for _, word := range strings.Fields(strings.ToLower(service.Description)) {
		if len(word) > 2 && strings.Contains(intent, word) {
			score += 5.0
		}
	}

	for _, cap := range service.Capabilities {
		if strings.Contains(intent, strings.ReplaceAll(strings.ToLower(cap), "_", " ")) {
			score += 3.0
		}
	}

	for _, tool := range service.Tools {
		if tool.Command != "" && strings.Contains(intent, tool.Command) {
			score += 4.0
		}
	}

	if strings.Contains(intent, string(service.Category)) {
		score += 2.0
	}

	return score
}

func serviceOf(toolID string) string {
	parts := strings.SplitN(toolID, ".", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return ""
	}
	return parts[0]
}

func stringPtr(s string) *string {
	return &s
}
