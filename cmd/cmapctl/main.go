// Command cmapctl inspects, validates and renders colormaps offline.
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/atlasmap-sc/colormaps/internal/config"
	"github.com/atlasmap-sc/colormaps/internal/render"
	"github.com/atlasmap-sc/colormaps/internal/service"
	"github.com/atlasmap-sc/colormaps/internal/simulation"
	"github.com/atlasmap-sc/colormaps/internal/store"
	"github.com/atlasmap-sc/colormaps/pkg/colormap"
)

func main() {
	app := &cli.App{
		Name:  "cmapctl",
		Usage: "inspect, validate and render colormaps",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config/server.yaml",
				Usage:   "server configuration file",
			},
			&cli.StringFlag{
				Name:  "db",
				Usage: "spec store to include (sqlite path)",
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			sampleCommand(),
			renderCommand(),
			validateCommand(),
			importCommand(),
			simulationCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// loadRegistry builds the same registry the server would.
func loadRegistry(c *cli.Context) (*colormap.Registry, *config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	var src service.SpecSource
	if path := c.String("db"); path != "" {
		st, err := store.NewStore(path, nil)
		if err != nil {
			return nil, nil, err
		}
		defer st.Close()
		src = st
	}

	reg, err := service.LoadRegistry(cfg.Colormaps, src, nil)
	if err != nil {
		return nil, nil, err
	}
	return reg, cfg, nil
}

func lookup(reg *colormap.Registry, name string) (colormap.Colormap, error) {
	if cmap, ok := reg.Lookup(name); ok {
		return cmap, nil
	}
	return nil, fmt.Errorf("unknown colormap %q", name)
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list registered colormaps",
		Action: func(c *cli.Context) error {
			reg, _, err := loadRegistry(c)
			if err != nil {
				return err
			}
			for _, name := range reg.Names() {
				cmap, _ := reg.Get(name)
				switch m := cmap.(type) {
				case *colormap.LinearColormap:
					stops := m.Stops()
					hexes := make([]string, len(stops))
					for i, st := range stops {
						hexes[i] = fmt.Sprintf("%g:%s", st.Pos, colormap.Hex(st.Color))
					}
					fmt.Printf("%-12s linear  %s\n", name, strings.Join(hexes, " "))
				case *colormap.ListedColormap:
					fmt.Printf("%-12s listed  %d colors\n", name, m.Len())
				}
			}
			return nil
		},
	}
}

func sampleCommand() *cli.Command {
	return &cli.Command{
		Name:      "sample",
		Usage:     "print n evenly spaced colors",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "n", Value: 8, Usage: "number of samples"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("sample takes exactly one colormap name", 2)
			}
			reg, _, err := loadRegistry(c)
			if err != nil {
				return err
			}
			cmap, err := lookup(reg, c.Args().First())
			if err != nil {
				return err
			}
			n := c.Int("n")
			for i, px := range colormap.Sample(cmap, n) {
				t := 0.0
				if n > 1 {
					t = float64(i) / float64(n-1)
				}
				fmt.Printf("%.4f #%02x%02x%02x\n", t, px.R, px.G, px.B)
			}
			return nil
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a colorbar or channel chart to a PNG file",
		ArgsUsage: "NAME",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (default NAME.png)"},
			&cli.IntFlag{Name: "width", Value: 256},
			&cli.IntFlag{Name: "height", Value: 32},
			&cli.BoolFlag{Name: "vertical"},
			&cli.BoolFlag{Name: "channels", Usage: "plot RGB channels instead of a colorbar"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("render takes exactly one colormap name", 2)
			}
			name := c.Args().First()
			reg, _, err := loadRegistry(c)
			if err != nil {
				return err
			}
			cmap, err := lookup(reg, name)
			if err != nil {
				return err
			}

			r := render.NewRenderer(render.Config{})
			var data []byte
			if c.Bool("channels") {
				data, err = r.RenderChannels(cmap, c.Int("width"))
			} else {
				data, err = r.RenderColorbar(cmap, c.Int("width"), c.Int("height"), c.Bool("vertical"))
			}
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = name + ".png"
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d bytes)\n", out, len(data))
			return nil
		},
	}
}

type specFile struct {
	Colormaps []colormap.Spec `yaml:"colormaps"`
}

func readSpecFile(path string) ([]colormap.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f specFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return f.Colormaps, nil
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check the colormaps section of a YAML file",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("validate takes exactly one file", 2)
			}
			specs, err := readSpecFile(c.Args().First())
			if err != nil {
				return err
			}
			var failed int
			for _, spec := range specs {
				if _, err := colormap.Build(spec, nil); err != nil {
					fmt.Printf("FAIL %-12s %v\n", spec.Name, err)
					failed++
					continue
				}
				fmt.Printf("ok   %-12s %d stops\n", spec.Name, len(spec.Colors))
			}
			if failed > 0 {
				return cli.Exit(fmt.Sprintf("%d of %d colormaps invalid", failed, len(specs)), 1)
			}
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "save the colormaps of a YAML file into the spec store",
		ArgsUsage: "FILE",
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("import takes exactly one file", 2)
			}
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			path := c.String("db")
			if path == "" {
				path = cfg.Store.SQLitePath
			}
			// Names owned by presets or config would be skipped at startup
			reg, err := service.LoadRegistry(cfg.Colormaps, nil, nil)
			if err != nil {
				return err
			}
			specs, err := readSpecFile(c.Args().First())
			if err != nil {
				return err
			}

			st, err := store.NewStore(path, nil)
			if err != nil {
				return err
			}
			defer st.Close()

			for _, spec := range specs {
				if _, ok := reg.Get(spec.Name); ok {
					fmt.Printf("skip %-12s name is built in\n", spec.Name)
					continue
				}
				stored, err := st.SaveSpec(spec)
				if errors.Is(err, store.ErrNameTaken) {
					fmt.Printf("skip %-12s already stored\n", spec.Name)
					continue
				}
				if err != nil {
					return fmt.Errorf("%s: %w", spec.Name, err)
				}
				fmt.Printf("saved %-12s %s\n", spec.Name, stored.ID)
			}
			return nil
		},
	}
}

func simulationCommand() *cli.Command {
	return &cli.Command{
		Name:  "simulation",
		Usage: "print the slab simulation parameters and frequency grid",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "frequencies", Usage: "print every sampled frequency"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			p := cfg.Simulation
			if err := p.Validate(); err != nil {
				return err
			}
			out, err := yaml.Marshal(struct {
				Params  simulation.Params  `yaml:"params"`
				Derived simulation.Derived `yaml:"derived"`
			}{p, p.Derive()})
			if err != nil {
				return err
			}
			fmt.Print(string(out))

			if c.Bool("frequencies") {
				for i, f := range p.Frequencies() {
					fmt.Printf("%4d %.6f %.2f THz\n", i, f, simulation.THz(f))
				}
			}
			return nil
		},
	}
}
