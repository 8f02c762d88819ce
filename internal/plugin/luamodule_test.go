package plugin

import (
	"context"
	"testing"

	"github.com/inkglass/corepad/internal/document"
)

func newLoadedHost(t *testing.T, luaCode string) *Host {
	t.Helper()
	manifest := createTestPlugin(t, "doctest", luaCode)
	host, err := NewHost(manifest)
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}
	if err := host.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return host
}

// ks is registered as a global table by RegisterDocumentModule (see
// state.go's RegisterModule, which sets a global rather than a
// package.preload entry), so scripts reference it directly rather than
// through require().

func TestRegisterDocumentModuleInsertText(t *testing.T) {
	d := document.NewFromString("hello")
	resolve := func(id BufferID) (*document.Document, bool) {
		if id != 1 {
			return nil, false
		}
		return d, true
	}
	api := NewDocumentAPI(resolve, NewCommandRegistry())

	host := newLoadedHost(t, `
		function run()
			ks.insertText({buffer = 1, position = 5, text = "!"})
		end
	`)
	RegisterDocumentModule(host, api, nil)

	if err := host.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := host.Call("run"); err != nil {
		t.Fatalf("Call(run) error = %v", err)
	}
	if got := d.TotalBytes(); got != 6 {
		t.Fatalf("want 6 bytes after plugin insert, got %d", got)
	}
}

func TestRegisterDocumentModuleSetStatus(t *testing.T) {
	d := document.NewFromString("x")
	resolve := func(id BufferID) (*document.Document, bool) { return d, id == 1 }
	api := NewDocumentAPI(resolve, NewCommandRegistry())

	host := newLoadedHost(t, `
		function run()
			ks.setStatus({message = "from plugin"})
		end
	`)
	RegisterDocumentModule(host, api, nil)

	if err := host.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := host.Call("run"); err != nil {
		t.Fatalf("Call(run) error = %v", err)
	}
	if got := api.Status(); got != "from plugin" {
		t.Fatalf("want status %q, got %q", "from plugin", got)
	}
}

func TestRegisterDocumentModuleRegisterCommand(t *testing.T) {
	d := document.NewFromString("x")
	resolve := func(id BufferID) (*document.Document, bool) { return d, id == 1 }
	commands := NewCommandRegistry()
	api := NewDocumentAPI(resolve, commands)

	host := newLoadedHost(t, `
		function run()
			ks.registerCommand({name = "demo.hello", description = "says hello", action = "hello"})
		end
	`)
	RegisterDocumentModule(host, api, nil)

	if err := host.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := host.Call("run"); err != nil {
		t.Fatalf("Call(run) error = %v", err)
	}
	if _, ok := commands.Get("demo.hello"); !ok {
		t.Fatal("want command registered from plugin")
	}
}

func TestRegisterDocumentModuleDeniesUndeclaredScope(t *testing.T) {
	d := document.NewFromString("hello")
	resolve := func(id BufferID) (*document.Document, bool) { return d, id == 1 }
	api := NewDocumentAPI(resolve, NewCommandRegistry())

	manifest := createTestPlugin(t, "scoped", `
		ok, err = nil, nil
		function run()
			ok, err = pcall(ks.insertText, {buffer = 1, position = 0, text = "!"})
		end
	`)
	manifest.DocumentScopes = []string{"status"}
	host, err := NewHost(manifest)
	if err != nil {
		t.Fatalf("NewHost() error = %v", err)
	}
	if err := host.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	RegisterDocumentModule(host, api, nil)

	if err := host.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := host.Call("run"); err != nil {
		t.Fatalf("Call(run) error = %v", err)
	}
	if d.TotalBytes() != 5 {
		t.Fatalf("want the edit scope to be denied and the document untouched, got %d bytes", d.TotalBytes())
	}
	if denials := host.TrackedScopeDenials(); len(denials) != 1 || denials[0] != "edit" {
		t.Fatalf("want one tracked denial for scope %q, got %v", "edit", denials)
	}
}

func TestRegisterDocumentModuleGetSetConfig(t *testing.T) {
	d := document.NewFromString("x")
	resolve := func(id BufferID) (*document.Document, bool) { return d, id == 1 }
	api := NewDocumentAPI(resolve, NewCommandRegistry())
	store := NewConfigStore(nil)

	host := newLoadedHost(t, `
		result = nil
		function run()
			ks.setConfig({key = "enabled", value = true})
			result = ks.getConfig({key = "enabled"})
		end
	`)
	RegisterDocumentModule(host, api, store)

	if err := host.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error = %v", err)
	}
	if _, err := host.Call("run"); err != nil {
		t.Fatalf("Call(run) error = %v", err)
	}
	value, ok := store.Get(host.Name(), "enabled")
	if !ok || value != true {
		t.Fatalf("want stored config enabled=true, got %v (ok=%v)", value, ok)
	}
}
