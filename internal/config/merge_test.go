package config

import "testing"

func TestDeepMergeOverridesLeafValues(t *testing.T) {
	dst := map[string]any{"editor": map[string]any{"tabWidth": int64(4), "wordWrap": true}}
	src := map[string]any{"editor": map[string]any{"tabWidth": int64(2)}}

	got := DeepMerge(dst, src)

	editor := got["editor"].(map[string]any)
	if editor["tabWidth"] != int64(2) {
		t.Fatalf("tabWidth = %v, want 2", editor["tabWidth"])
	}
	if editor["wordWrap"] != true {
		t.Fatal("expected wordWrap to survive the merge untouched")
	}
}

func TestDeepMergeDoesNotMutateSrc(t *testing.T) {
	src := map[string]any{"ui": map[string]any{"theme": "dark"}}
	dst := DeepMerge(nil, src)
	dst["ui"].(map[string]any)["theme"] = "light"

	if src["ui"].(map[string]any)["theme"] != "dark" {
		t.Fatal("DeepMerge should deep-copy values from src, not alias them")
	}
}

func TestSetAndGetByPath(t *testing.T) {
	m := make(map[string]any)
	setByPath(m, "editor.tabWidth", int64(4))
	v, ok := getByPath(m, "editor.tabWidth")
	if !ok || v != int64(4) {
		t.Fatalf("got (%v, %v), want (4, true)", v, ok)
	}
	if _, ok := getByPath(m, "editor.missing"); ok {
		t.Fatal("expected getByPath to report false for an absent key")
	}
}
