// Package backend is the registry of gtext render-target backends.
//
// Backends register a factory from an init() function and are selected by
// name at runtime. Importing a backend package registers it:
//
//	import _ "github.com/gogpu/gtext/backend/software"
//
//	b, err := backend.New(backend.Software, img) // img is a draw.Image
//
// # Available Backends
//
//   - "software": composites into any draw.Image on the CPU
//   - "gpu": uploads glyphs as textures through a gpucontext.TextureDrawer
package backend
