// modeltool inspects 3D model files without opening a window.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/Faultbox/modelkit/internal/assets"
	"github.com/Faultbox/modelkit/internal/config"
	"github.com/Faultbox/modelkit/internal/engine/gpu"
	"github.com/Faultbox/modelkit/internal/engine/model"
	"github.com/Faultbox/modelkit/internal/logger"
	"github.com/Faultbox/modelkit/pkg/scenegraph"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "textures", "tex":
		cmdTextures(args)
	case "tree":
		cmdTree(args)
	case "draw":
		cmdDraw(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`modeltool - 3D model inspection utility

Usage:
  modeltool <command> [options] <model>

Commands:
  info <model>       Show mesh, vertex and texture counts
  textures <model>   List resolved textures with size and role
  tree <model>       Print the scene node hierarchy
  draw <model>       Print the sampler bindings and draw calls of one frame

Options (info, textures, draw):
  -missing skip|placeholder|fail   Missing texture policy (default skip)
  -legacy                          Read normal maps from height slots (OBJ/MTL)
  -debug                           Log loader details (warnings are always shown)

Examples:
  modeltool info backpack.gltf
  modeltool textures -missing fail scene.glb
  modeltool draw -legacy backpack.gltf`)
}

// loadFlags parses the shared loader options and returns the model path.
func loadFlags(name string, args []string) (*config.Config, string) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	missing := fs.String("missing", config.MissingSkip, "Missing texture policy")
	legacy := fs.Bool("legacy", false, "Legacy role mapping")
	debug := fs.Bool("debug", false, "Debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: modeltool %s [options] <model>\n", name)
		os.Exit(1)
	}

	cfg := config.Default()
	cfg.Textures.Missing = *missing
	if *legacy {
		cfg.Textures.RoleMapping = config.RoleMappingLegacy
	}
	cfg.Logging.Level = "warn"
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if err := logger.Init(cfg.Logging.Level, ""); err != nil {
		fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		fatal(err)
	}
	return cfg, fs.Arg(0)
}

// loadModel loads path into an in-memory device.
func loadModel(cfg *config.Config, path string) (*model.Model, *gpu.Recorder, *assets.Manager) {
	dev := gpu.NewRecorder()
	mgr, err := assets.NewManager(cfg, dev)
	if err != nil {
		fatal(err)
	}
	m, err := mgr.Load(path)
	if err != nil {
		fatal(err)
	}
	return m, dev, mgr
}

func cmdInfo(args []string) {
	cfg, path := loadFlags("info", args)
	m, _, mgr := loadModel(cfg, path)
	defer mgr.Close()

	s := m.Stats()
	b := m.Bounds()
	size := b.Size()

	fmt.Printf("Model:     %s\n", m.Path)
	fmt.Printf("Meshes:    %d\n", s.Meshes)
	fmt.Printf("Vertices:  %d\n", s.Vertices)
	fmt.Printf("Triangles: %d\n", s.Triangles)
	fmt.Printf("Textures:  %d unique, %d references\n", m.Textures.Len(), s.Textures)
	if !b.Empty() {
		fmt.Printf("Bounds:    min (%.3f, %.3f, %.3f) max (%.3f, %.3f, %.3f)\n",
			b.Min[0], b.Min[1], b.Min[2], b.Max[0], b.Max[1], b.Max[2])
		fmt.Printf("Size:      %.3f x %.3f x %.3f\n", size[0], size[1], size[2])
	}
}

func cmdTextures(args []string) {
	cfg, path := loadFlags("textures", args)
	m, dev, mgr := loadModel(cfg, path)
	defer mgr.Close()

	type texStat struct {
		path  string
		roles map[string]bool
		refs  int
		id    gpu.TextureID
	}
	byID := make(map[gpu.TextureID]*texStat)
	for _, mesh := range m.Meshes {
		for _, tex := range mesh.Textures {
			st, ok := byID[tex.ID]
			if !ok {
				st = &texStat{path: tex.Path, roles: make(map[string]bool), id: tex.ID}
				if st.path == "" {
					st.path = "(placeholder)"
				}
				byID[tex.ID] = st
			}
			st.roles[tex.Role.String()] = true
			st.refs++
		}
	}

	var stats []*texStat
	for _, st := range byID {
		stats = append(stats, st)
	}
	sort.Slice(stats, func(i, j int) bool {
		return stats[i].path < stats[j].path
	})

	for _, st := range stats {
		var roles []string
		for r := range st.roles {
			roles = append(roles, r)
		}
		sort.Strings(roles)

		desc, _ := dev.Texture(st.id)
		fmt.Printf("%-50s %5dx%-5d %dch  refs=%-3d %s\n",
			st.path, desc.Width, desc.Height, desc.Format.Channels(), st.refs, strings.Join(roles, ","))
	}
	fmt.Printf("\n%d textures\n", len(stats))
}

func cmdTree(args []string) {
	fs := flag.NewFlagSet("tree", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: modeltool tree <model>")
		os.Exit(1)
	}

	scene, err := assets.ParseScene(fs.Arg(0))
	if err != nil {
		fatal(err)
	}

	scene.Root.Walk(func(n *scenegraph.Node, depth int) bool {
		name := n.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("%s%s", strings.Repeat("  ", depth), name)
		for _, idx := range n.Meshes {
			if idx >= 0 && idx < len(scene.Meshes) {
				mesh := scene.Meshes[idx]
				fmt.Printf(" [%s: %d verts, %d faces]", mesh.Name, len(mesh.Positions), len(mesh.Faces))
			}
		}
		fmt.Println()
		return true
	})
	if scene.Incomplete() {
		fmt.Println("\nscene is incomplete")
	}
}

// samplerLog collects sampler assignments in call order.
type samplerLog []string

func (l *samplerLog) SetInt(name string, value int32) {
	*l = append(*l, fmt.Sprintf("%s = %d", name, value))
}

func cmdDraw(args []string) {
	cfg, path := loadFlags("draw", args)
	m, dev, mgr := loadModel(cfg, path)
	defer mgr.Close()

	for i, mesh := range m.Meshes {
		fmt.Printf("mesh %d %q\n", i, mesh.Name)
		dev.ResetEvents()
		var samplers samplerLog
		mesh.Draw(&samplers)
		for _, line := range samplers {
			fmt.Printf("    uniform %s\n", line)
		}
		for _, e := range dev.Events() {
			switch e.Kind {
			case gpu.EventActiveTexture:
				fmt.Printf("    active texture unit %d\n", e.Unit)
			case gpu.EventBindTexture:
				fmt.Printf("    bind texture %d\n", e.Texture)
			case gpu.EventBindVertexArray:
				fmt.Printf("    bind vertex array %d\n", e.VAO)
			case gpu.EventDraw:
				fmt.Printf("    draw %d indices\n", e.Count)
			}
		}
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
