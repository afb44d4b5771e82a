package registry

import (
	"reflect"
	"testing"
)

func TestRegistry_SourceProviders(t *testing.T) {
	r := New()

	if _, ok := r.GetSourceProvider("rest"); ok {
		t.Fatal("empty registry returned a provider")
	}

	r.RegisterSourceProvider("store", func(map[string]interface{}) (interface{}, error) { return "store", nil })
	r.RegisterSourceProvider("rest", func(map[string]interface{}) (interface{}, error) { return "rest", nil })

	factory, ok := r.GetSourceProvider("rest")
	if !ok {
		t.Fatal("registered provider not found")
	}
	got, err := factory(nil)
	if err != nil || got != "rest" {
		t.Errorf("factory() = %v, %v", got, err)
	}

	if names := r.ListSourceProviders(); !reflect.DeepEqual(names, []string{"rest", "store"}) {
		t.Errorf("ListSourceProviders() = %v", names)
	}
}

func TestRegistry_Features(t *testing.T) {
	r := New()
	if r.IsFeatureEnabled("x") {
		t.Fatal("feature enabled in empty registry")
	}
	r.RegisterFeature("x", 42)
	v, ok := r.GetFeature("x")
	if !ok || v != 42 {
		t.Errorf("GetFeature() = %v, %v", v, ok)
	}
	if !r.IsFeatureEnabled("x") {
		t.Error("registered feature not enabled")
	}
}

func TestGetRegistry_Singleton(t *testing.T) {
	if GetRegistry() != GetRegistry() {
		t.Error("GetRegistry returned different instances")
	}
}
