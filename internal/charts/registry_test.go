package charts

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistryPublishLatestGeneration(t *testing.T) {
	reg := NewRegistry()

	gen := reg.Begin(Hourly)
	assert.True(t, reg.Publish(Hourly, gen, &Result{ID: Hourly, Title: "first"}))
	assert.Equal(t, "first", reg.Get(Hourly).Title)
}

func TestRegistryDropsStaleResult(t *testing.T) {
	reg := NewRegistry()

	stale := reg.Begin(Hourly)
	fresh := reg.Begin(Hourly)

	assert.True(t, reg.Publish(Hourly, fresh, &Result{ID: Hourly, Title: "fresh"}))
	assert.False(t, reg.Publish(Hourly, stale, &Result{ID: Hourly, Title: "stale"}))
	assert.Equal(t, "fresh", reg.Get(Hourly).Title)
}

func TestRegistryGenerationsAreIndependent(t *testing.T) {
	reg := NewRegistry()

	hourlyGen := reg.Begin(Hourly)
	reg.Begin(Season)
	reg.Begin(Season)

	assert.True(t, reg.Publish(Hourly, hourlyGen, &Result{ID: Hourly}))
}

func TestRegistrySnapshotDisplayOrder(t *testing.T) {
	reg := NewRegistry()

	reg.Publish(Season, reg.Begin(Season), &Result{ID: Season})
	reg.Publish(Hourly, reg.Begin(Hourly), &Result{ID: Hourly})

	snap := reg.Snapshot()
	assert.Len(t, snap, 2)
	assert.Equal(t, Hourly, snap[0].ID)
	assert.Equal(t, Season, snap[1].ID)
}

func TestRegistryClear(t *testing.T) {
	reg := NewRegistry()
	reg.Publish(Hourly, reg.Begin(Hourly), &Result{ID: Hourly})
	reg.Clear()
	assert.Nil(t, reg.Get(Hourly))
	assert.Empty(t, reg.Snapshot())
}
