package loader

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

type fakeFeature struct {
	name    string
	enabled bool
	err     error
	loaded  bool
}

func (f *fakeFeature) Name() string    { return f.name }
func (f *fakeFeature) IsEnabled() bool { return f.enabled }
func (f *fakeFeature) Load(fiber.Router) error {
	f.loaded = true
	return f.err
}

func TestManager_LoadAll(t *testing.T) {
	enabled := &fakeFeature{name: "catalog", enabled: true}
	disabled := &fakeFeature{name: "integrity"}

	m := NewManager(nil)
	m.Register(enabled)
	m.Register(disabled)
	assert.Len(t, m.Features(), 2)

	assert.NoError(t, m.LoadAll(fiber.New()))
	assert.True(t, enabled.loaded)
	assert.False(t, disabled.loaded)
}

func TestManager_LoadAllStopsOnError(t *testing.T) {
	broken := &fakeFeature{name: "broken", enabled: true, err: errors.New("boom")}
	after := &fakeFeature{name: "after", enabled: true}

	m := NewManager(nil)
	m.Register(broken)
	m.Register(after)

	err := m.LoadAll(fiber.New())
	assert.ErrorContains(t, err, "broken")
	assert.False(t, after.loaded)
}
