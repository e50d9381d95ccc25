package extension

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testExtension struct {
	name string
}

func (e testExtension) Name() string               { return e.name }
func (e testExtension) Commands() []*cobra.Command { return nil }
func (e testExtension) MCPTools() []MCPTool        { return nil }

func TestRegister_PanicOnDuplicate(t *testing.T) {
	name := "test-duplicate-panic"
	Register(testExtension{name: name})

	assert.PanicsWithValue(t, "extension already registered: "+name, func() {
		Register(testExtension{name: name})
	})
}

func TestRegister_PreservesOrder(t *testing.T) {
	Register(testExtension{name: "test-order-b"})
	Register(testExtension{name: "test-order-a"})

	names := Names()
	ib := indexOf(names, "test-order-b")
	ia := indexOf(names, "test-order-a")
	require.NotEqual(t, -1, ib)
	require.NotEqual(t, -1, ia)
	assert.Less(t, ib, ia)

	assert.Equal(t, "test-order-a", Get("test-order-a").Name())
	assert.Nil(t, Get("test-order-missing"))
	assert.Len(t, All(), len(names))
}

func TestEvents_Types(t *testing.T) {
	tests := []struct {
		event Event
		want  EventType
	}{
		{IngestEvent{}, EventIngest},
		{TagEvent{Added: true}, EventTagAdd},
		{TagEvent{}, EventTagRemove},
		{TagDeleteEvent{}, EventTagDelete},
		{MoveEvent{}, EventImageMove},
		{RevertEvent{}, EventImageRevert},
		{RenameEvent{}, EventImageRename},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.event.EventType())
	}
}

func indexOf(s []string, v string) int {
	for i, e := range s {
		if e == v {
			return i
		}
	}
	return -1
}
