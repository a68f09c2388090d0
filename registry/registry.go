package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var ErrUnknownEntity = errors.New("unknown entity")

type Entity struct {
	ID       string   `json:"entity_id"`
	Name     string   `json:"name"`
	State    string   `json:"state"`
	Aliases  []string `json:"aliases,omitempty"`
	AreaID   string   `json:"area_id,omitempty"`
	DeviceID string   `json:"device_id,omitempty"`
	Exposed  bool     `json:"exposed"`
}

type Device struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
	Model        string `json:"model,omitempty"`
	AreaID       string `json:"area_id,omitempty"`
}

// Info is the device description sent as device_info.
func (d Device) Info() map[string]any {
	info := map[string]any{
		"id":   d.ID,
		"name": d.Name,
	}
	if d.Manufacturer != "" {
		info["manufacturer"] = d.Manufacturer
	}
	if d.Model != "" {
		info["model"] = d.Model
	}
	if d.AreaID != "" {
		info["area_id"] = d.AreaID
	}
	return info
}

type Area struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ExposedEntity is the snapshot of an entity the webhook is allowed to see.
// Area fields are null when the area cannot be resolved.
type ExposedEntity struct {
	EntityID string   `json:"entity_id"`
	Name     string   `json:"name"`
	State    string   `json:"state"`
	Aliases  []string `json:"aliases"`
	AreaID   *string  `json:"area_id"`
	AreaName *string  `json:"area_name"`
}

type Lookup interface {
	ExposedEntities() []ExposedEntity
	Device(id string) (Device, bool)
}

type Registry struct {
	mu       sync.RWMutex
	entities map[string]Entity
	devices  map[string]Device
	areas    map[string]Area
}

func New() *Registry {
	return &Registry{
		entities: make(map[string]Entity),
		devices:  make(map[string]Device),
		areas:    make(map[string]Area),
	}
}

type snapshot struct {
	Entities []Entity `json:"entities"`
	Devices  []Device `json:"devices"`
	Areas    []Area   `json:"areas"`
}

// LoadFile reads a registry snapshot of the form
// {"entities": [...], "devices": [...], "areas": [...]}.
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse registry file %s: %w", path, err)
	}
	r := New()
	for _, area := range snap.Areas {
		r.AddArea(area)
	}
	for _, device := range snap.Devices {
		r.AddDevice(device)
	}
	for _, entity := range snap.Entities {
		r.AddEntity(entity)
	}
	return r, nil
}

func (r *Registry) AddEntity(entity Entity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entities[entity.ID] = entity
}

func (r *Registry) AddDevice(device Device) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.devices[device.ID] = device
}

func (r *Registry) AddArea(area Area) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.areas[area.ID] = area
}

func (r *Registry) SetState(entityID, state string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.entities[entityID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownEntity, entityID)
	}
	entity.State = state
	r.entities[entityID] = entity
	return nil
}

func (r *Registry) Device(id string) (Device, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	device, ok := r.devices[id]
	return device, ok
}

// ExposedEntities returns the exposed entities ordered by entity id.
func (r *Registry) ExposedEntities() []ExposedEntity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ids := maps.Keys(r.entities)
	slices.Sort(ids)
	return lo.FilterMap(ids, func(id string, _ int) (ExposedEntity, bool) {
		entity := r.entities[id]
		if !entity.Exposed {
			return ExposedEntity{}, false
		}
		exposed := ExposedEntity{
			EntityID: entity.ID,
			Name:     entity.Name,
			State:    entity.State,
			Aliases:  append([]string{}, entity.Aliases...),
		}
		exposed.AreaID, exposed.AreaName = r.resolveArea(entity)
		return exposed, true
	})
}

// resolveArea uses the entity's own area, falling back to its device's area.
func (r *Registry) resolveArea(entity Entity) (areaID, areaName *string) {
	id := entity.AreaID
	if id == "" && entity.DeviceID != "" {
		if device, ok := r.devices[entity.DeviceID]; ok {
			id = device.AreaID
		}
	}
	if id == "" {
		return nil, nil
	}
	if area, ok := r.areas[id]; ok {
		return lo.ToPtr(id), lo.ToPtr(area.Name)
	}
	return lo.ToPtr(id), nil
}
