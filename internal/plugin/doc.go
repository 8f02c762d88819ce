// Package plugin provides the plugin host for corepad.
//
// The plugin system extends the editor with Lua scripts that can:
//   - Add and clear overlays, virtual text, and margin indicators
//   - Edit a document's text and move its cursors
//   - Request computed highlight spans for a range
//   - Register commands the host surfaces to the user
//
// Document-facing operations are the closed message set api.go's
// DocumentAPI describes: every plugin call is validated and clamped to
// document bounds before it touches any owned subsystem, since
// the plugin host is untrusted with respect to timing and argument
// validity.
//
// # Plugin Structure
//
// Plugins can be either single-file or directory-based:
//
// Single-file plugin:
//
//	~/.config/corepad/plugins/myplugin.lua
//
// Directory plugin:
//
//	~/.config/corepad/plugins/myplugin/
//	├── plugin.json      # Manifest (optional but recommended)
//	├── init.lua         # Entry point
//	└── lib/             # Additional modules
//	    └── helper.lua
//
// # Manifest
//
// The plugin.json manifest describes the plugin:
//
//	{
//	  "name": "my-plugin",
//	  "version": "1.0.0",
//	  "displayName": "My Plugin",
//	  "description": "A helpful plugin",
//	  "main": "init.lua",
//	  "capabilities": ["filesystem.read"],
//	  "commands": [
//	    {"id": "my-plugin.doThing", "title": "Do Thing"}
//	  ]
//	}
//
// # Capabilities
//
// Plugins must declare required capabilities in their manifest:
//   - filesystem.read: Read files
//   - filesystem.write: Write files
//   - network: Make network requests
//   - shell: Execute shell commands
//   - clipboard: Access clipboard
//   - process.spawn: Spawn processes
//   - unsafe: Disable sandbox restrictions
//
// # Plugin Lifecycle
//
// Plugins go through these states:
//
//	StateUnloaded -> Load() -> StateLoaded
//	StateLoaded -> Activate() -> StateActive
//	StateActive -> Deactivate() -> StateLoaded
//	StateLoaded -> Unload() -> StateUnloaded
//
// The Host type manages a single plugin's lifecycle and Lua state.
// The Manager type coordinates multiple plugins.
//
// # Security
//
// Plugins run in a sandboxed Lua environment with:
//   - Dangerous functions removed (dofile, loadfile, load, os.execute, etc.)
//   - Capability-based access control
//
// The instruction limit and execution timeout a Host is configured with
// are recorded on the plugin's Lua state, but no execution path enforces
// either: a script that loops forever is not interrupted.
//
// # Example Plugin
//
// RegisterDocumentModule installs "ks" as a global table before a plugin's
// functions run, so scripts reference it directly rather than through
// require():
//
//	-- init.lua
//	function setup(config)
//	    -- Initialize with config
//	end
//
//	function activate()
//	    ks.registerCommand({name = "my-plugin.hello", description = "Say hello"})
//	end
//
//	function onCommand(name)
//	    if name == "my-plugin.hello" then
//	        ks.setStatus({message = "Hello from plugin!"})
//	    end
//	end
//
//	function deactivate()
//	    ks.unregister({name = "my-plugin.hello"})
//	end
package plugin
