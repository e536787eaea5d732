package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/paulmach/orb/geojson"

	"github.com/kwv/polymerge/merge"
)

// Version is set at build time via -ldflags
var Version = "dev"

var (
	mergeMode  = flag.Bool("merge", false, "Merge input GeoJSON files and exit")
	renderMode = flag.Bool("render", false, "Render input GeoJSON files without merging")
	serveMode  = flag.Bool("serve", false, "Run MQTT service mode for live fragment merging")

	inPattern   = flag.String("in", "*.geojson", "Glob pattern of input GeoJSON files")
	outputFile  = flag.String("out", "merged.geojson", "Output file for --merge mode")
	propertyKey = flag.String("prop", "layer", "Feature property key polygons merge under")
	configFile  = flag.String("config", "", "Path to YAML settings / service configuration")
	threads     = flag.Int("threads", 0, "Worker threads (0 or 1 = sequential)")
	checkDiff   = flag.Bool("check-diff", false, "Report property conflicts instead of collapsing them")

	svgFile = flag.String("svg", "", "Also render the merged result to this SVG file")
	pngFile = flag.String("png", "", "Also render the merged result to this PNG file")
)

func main() {
	flag.Parse()
	fmt.Printf("polymerge version: %s\n", Version)

	if *mergeMode {
		runMerge()
		return
	}

	if *renderMode {
		runRender()
		return
	}

	if *serveMode {
		runService()
		return
	}

	fmt.Println("Use --merge to merge GeoJSON files")
	fmt.Println("Use --render to render GeoJSON files to --svg/--png without merging")
	fmt.Println("Use --serve to run the MQTT fragment-merging service")
	fmt.Println("\nConfiguration:")
	fmt.Println("  --config settings.yaml - merge settings (and broker for --serve)")
}

// runMerge merges all matching GeoJSON files into one output file.
func runMerge() {
	files, err := filepath.Glob(*inPattern)
	if err != nil {
		log.Fatalf("Error finding GeoJSON files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No files match %s", *inPattern)
	}

	settings := merge.DefaultSettings()
	if *configFile != "" {
		loaded, err := merge.LoadSettings(*configFile)
		if err != nil {
			log.Fatalf("Error loading settings: %v", err)
		}
		settings = *loaded
	}
	settings.CheckPropertyDiff = settings.CheckPropertyDiff || *checkDiff
	if *threads > 0 {
		settings.Threads = *threads
	}

	merger := merge.NewMerger[string, float64]()
	merger.SetSettings(settings)

	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Error reading %s: %v", path, err)
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
		if err := merge.AddFeatureCollection(merger, fc, *propertyKey); err != nil {
			log.Fatalf("Error ingesting %s: %v", path, err)
		}
		log.Printf("Loaded %s (%d features)", path, len(fc.Features))
	}

	merger.RunParallel(settings.Threads)

	polygons := merger.GetAllPolygons()
	diffs := merger.PropDiffAreas()
	log.Printf("Merged down to %d polygons, %d property conflicts", len(polygons), len(diffs))

	out := merge.ToFeatureCollection(polygons, diffs, *propertyKey)
	data, err := json.Marshal(out)
	if err != nil {
		log.Fatalf("Error marshaling output: %v", err)
	}
	if err := os.WriteFile(*outputFile, data, 0644); err != nil {
		log.Fatalf("Error writing %s: %v", *outputFile, err)
	}
	log.Printf("Wrote %s", *outputFile)

	if *svgFile != "" {
		writeRender(*svgFile, polygons, diffs, merge.RenderSVG)
	}
	if *pngFile != "" {
		writeRender(*pngFile, polygons, diffs, merge.RenderPNG)
	}
}

// runRender draws merged (or raw) GeoJSON files to SVG/PNG as-is, without a
// merge pass.
func runRender() {
	if *svgFile == "" && *pngFile == "" {
		log.Fatal("--render requires --svg and/or --png")
	}

	files, err := filepath.Glob(*inPattern)
	if err != nil {
		log.Fatalf("Error finding GeoJSON files: %v", err)
	}
	if len(files) == 0 {
		log.Fatalf("No files match %s", *inPattern)
	}

	// The merger is used as a container only: without a Merge call,
	// GetAllPolygons hands back the raw ingested records.
	merger := merge.NewMerger[string, float64]()
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Error reading %s: %v", path, err)
		}
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			log.Fatalf("Error parsing %s: %v", path, err)
		}
		if err := merge.AddFeatureCollection(merger, fc, *propertyKey); err != nil {
			log.Fatalf("Error ingesting %s: %v", path, err)
		}
		log.Printf("Loaded %s (%d features)", path, len(fc.Features))
	}

	polygons := merger.GetAllPolygons()
	log.Printf("Rendering %d polygons", len(polygons))

	if *svgFile != "" {
		writeRender(*svgFile, polygons, nil, merge.RenderSVG)
	}
	if *pngFile != "" {
		writeRender(*pngFile, polygons, nil, merge.RenderPNG)
	}
}

func writeRender(
	path string,
	polygons []*merge.PolygonWithProp[string, float64],
	diffs []merge.PropDiffArea[string, float64],
	render func(io.Writer, []*merge.PolygonWithProp[string, float64], []merge.PropDiffArea[string, float64], merge.RenderOptions) error,
) {
	f, err := os.Create(path)
	if err != nil {
		log.Fatalf("Error creating %s: %v", path, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Warning: error closing %s: %v", path, err)
		}
	}()

	if err := render(f, polygons, diffs, merge.DefaultRenderOptions()); err != nil {
		log.Fatalf("Error rendering %s: %v", path, err)
	}
	log.Printf("Wrote %s", path)
}

// runService runs the MQTT fragment-merging service until interrupted.
func runService() {
	if *configFile == "" {
		log.Fatal("--serve requires --config")
	}
	config, err := merge.LoadServiceConfig(*configFile)
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	client := merge.NewServiceClient(config, nil)
	service := merge.NewFragmentService(client, config)

	stop := make(chan struct{})
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		log.Println("Shutting down...")
		close(stop)
	}()

	log.Printf("Starting fragment service on %s", config.Broker)
	if err := service.Serve(stop); err != nil {
		log.Fatalf("Service error: %v", err)
	}
}
