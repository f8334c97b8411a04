package translate

import "testing"

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	provider := &fakeProvider{}
	registry.Register(provider)

	got, err := registry.Resolve("fake")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != provider {
		t.Fatal("resolve returned a different provider")
	}

	if _, err := registry.Resolve("deepl"); err == nil {
		t.Fatal("expected error for an unregistered provider")
	}
}

func TestRegistryReplace(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	first := &fakeProvider{}
	second := &fakeProvider{}
	registry.Register(first)
	registry.Register(second)

	got, err := registry.Resolve("fake")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != second {
		t.Fatal("later registration must replace the earlier one")
	}
}
