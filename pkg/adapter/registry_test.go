package adapter

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnknownAdapterError_Error(t *testing.T) {
	err := &UnknownAdapterError{
		Type:      "fake_db",
		Available: []string{"mysql", "postgres"},
	}

	msg := err.Error()
	assert.Contains(t, msg, "fake_db")
	assert.Contains(t, msg, "leapsheet.yaml")
}

func TestRegister(t *testing.T) {
	Register("Test_Adapter_Internal", func(_ *slog.Logger) Adapter { return nil })

	assert.True(t, IsRegistered("test_adapter_internal"), "names are case insensitive")

	factory, ok := Get("TEST_ADAPTER_INTERNAL")
	assert.True(t, ok)
	assert.NotNil(t, factory)
	assert.Contains(t, ListAdapters(), "test_adapter_internal")
}

func TestRegisterAlias(t *testing.T) {
	Register("test_alias_target", func(_ *slog.Logger) Adapter { return nil })
	RegisterAlias("test_alias", "test_alias_target")

	assert.True(t, IsRegistered("test_alias"))
	assert.NotContains(t, ListAdapters(), "test_alias", "aliases are not listed")
}

func TestNewAdapter_EmptyType(t *testing.T) {
	_, err := NewAdapter(Config{}, nil)
	require.Error(t, err)
	assert.Equal(t, "adapter type not specified", err.Error())
}

func TestNewAdapter_UnknownType(t *testing.T) {
	_, err := NewAdapter(Config{Type: "unknown_adapter"}, nil)

	var unknownErr *UnknownAdapterError
	require.ErrorAs(t, err, &unknownErr)
	assert.Equal(t, "unknown_adapter", unknownErr.Type)
}

func TestOpen_UnknownType(t *testing.T) {
	a, err := Open(context.Background(), Config{Type: "unknown_adapter"}, nil)
	assert.Nil(t, a)

	var unknownErr *UnknownAdapterError
	assert.ErrorAs(t, err, &unknownErr)
}
