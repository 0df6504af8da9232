package state

import (
	"context"
	"testing"
)

func TestNewStore_DefaultsToMemory(t *testing.T) {
	res, err := NewStore(context.Background(), FactoryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := res.Store.(*MemoryStore); !ok {
		t.Fatalf("expected memory store, got %T", res.Store)
	}
	if res.DB != nil {
		t.Fatalf("memory backend must not carry a DB handle")
	}
}

func TestNewStore_MySQLRequiresDSN(t *testing.T) {
	_, err := NewStore(context.Background(), FactoryConfig{Backend: "mysql"})
	if err == nil {
		t.Fatalf("expected error for missing DSN")
	}
}

func TestNewStore_UnknownBackend(t *testing.T) {
	_, err := NewStore(context.Background(), FactoryConfig{Backend: "cassandra"})
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
