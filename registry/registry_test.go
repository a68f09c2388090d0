package registry

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() *Registry {
	r := New()
	r.AddArea(Area{ID: "kitchen", Name: "Kitchen"})
	r.AddArea(Area{ID: "office", Name: "Office"})
	r.AddDevice(Device{ID: "dev-1", Name: "Hue Bridge", Manufacturer: "Signify", AreaID: "office"})
	r.AddDevice(Device{ID: "dev-2", Name: "Plug"})
	r.AddEntity(Entity{ID: "light.kitchen", Name: "Kitchen Light", State: "on", Aliases: []string{"ceiling"}, AreaID: "kitchen", DeviceID: "dev-1", Exposed: true})
	r.AddEntity(Entity{ID: "light.desk", Name: "Desk Lamp", State: "off", DeviceID: "dev-1", Exposed: true})
	r.AddEntity(Entity{ID: "switch.plug", Name: "Plug", State: "on", DeviceID: "dev-2", Exposed: true})
	r.AddEntity(Entity{ID: "sensor.garage", Name: "Garage", State: "12", AreaID: "garage", Exposed: true})
	r.AddEntity(Entity{ID: "lock.front", Name: "Front Door", State: "locked", AreaID: "kitchen"})
	return r
}

func strPtr(s string) *string {
	return &s
}

func TestExposedEntities(t *testing.T) {
	expected := []ExposedEntity{
		{EntityID: "light.desk", Name: "Desk Lamp", State: "off", Aliases: []string{}, AreaID: strPtr("office"), AreaName: strPtr("Office")},
		{EntityID: "light.kitchen", Name: "Kitchen Light", State: "on", Aliases: []string{"ceiling"}, AreaID: strPtr("kitchen"), AreaName: strPtr("Kitchen")},
		{EntityID: "sensor.garage", Name: "Garage", State: "12", Aliases: []string{}, AreaID: strPtr("garage")},
		{EntityID: "switch.plug", Name: "Plug", State: "on", Aliases: []string{}},
	}
	assert.Equal(t, expected, newTestRegistry().ExposedEntities())
}

func TestExposedEntityJSON(t *testing.T) {
	entities := newTestRegistry().ExposedEntities()
	encoded, err := json.Marshal(entities[3])
	require.NoError(t, err)
	assert.JSONEq(t, `{"entity_id":"switch.plug","name":"Plug","state":"on","aliases":[],"area_id":null,"area_name":null}`, string(encoded))
}

func TestDevice(t *testing.T) {
	r := newTestRegistry()
	device, ok := r.Device("dev-1")
	require.True(t, ok)
	assert.Equal(t, map[string]any{
		"id":           "dev-1",
		"name":         "Hue Bridge",
		"manufacturer": "Signify",
		"area_id":      "office",
	}, device.Info())
	_, ok = r.Device("missing")
	assert.False(t, ok)
}

func TestSetState(t *testing.T) {
	r := newTestRegistry()
	require.NoError(t, r.SetState("switch.plug", "off"))
	assert.Equal(t, "off", r.ExposedEntities()[3].State)
	assert.ErrorIs(t, r.SetState("light.missing", "on"), ErrUnknownEntity)
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := newTestRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = r.SetState("light.desk", "on")
		}()
		go func() {
			defer wg.Done()
			assert.Len(t, r.ExposedEntities(), 4)
		}()
	}
	wg.Wait()
}

func TestLoadFile(t *testing.T) {
	testCases := []struct {
		name        string
		content     string
		expectedErr bool
		expectedLen int
	}{
		{
			name: "valid",
			content: `{
				"areas": [{"id": "kitchen", "name": "Kitchen"}],
				"devices": [{"id": "dev-1", "name": "Bridge", "area_id": "kitchen"}],
				"entities": [
					{"entity_id": "light.a", "name": "A", "state": "on", "device_id": "dev-1", "exposed": true},
					{"entity_id": "light.b", "name": "B", "state": "off"}
				]
			}`,
			expectedLen: 1,
		},
		{
			name:        "invalid",
			content:     `{"entities": 5}`,
			expectedErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "registry.json")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o600))
			r, err := LoadFile(path)
			if tc.expectedErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			entities := r.ExposedEntities()
			require.Len(t, entities, tc.expectedLen)
			assert.Equal(t, strPtr("Kitchen"), entities[0].AreaName)
		})
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
