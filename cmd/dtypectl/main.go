package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/dtype-runtime/capability"
	"github.com/wippyai/dtype-runtime/dtype"
	"github.com/wippyai/dtype-runtime/hostprov"
	"github.com/wippyai/dtype-runtime/manifest"
	"github.com/wippyai/dtype-runtime/registry"
	"github.com/wippyai/dtype-runtime/wasmext"
)

func main() {
	var (
		manifestPath = flag.String("manifest", "", "Path to extension manifest (json)")
		schema       = flag.Bool("schema", false, "Print the manifest JSON schema and exit")
		list         = flag.Bool("list", false, "List registered dtypes and exit")
		common       = flag.String("common", "", "Resolve the common dtype of a comma-separated list of names")
		interactive  = flag.Bool("i", false, "Interactive mode with TUI")
		verbose      = flag.Bool("v", false, "Verbose logging")
	)
	flag.Parse()

	if *schema {
		data, err := manifest.Schema()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err == nil {
			registry.SetLogger(logger)
			defer logger.Sync()
		}
	}

	if !*list && *common == "" && !*interactive {
		fmt.Fprintln(os.Stderr, "Usage: dtypectl [-manifest ext.json] -list")
		fmt.Fprintln(os.Stderr, "       dtypectl [-manifest ext.json] -common int32,uint64")
		fmt.Fprintln(os.Stderr, "       dtypectl [-manifest ext.json] -i  (interactive mode)")
		fmt.Fprintln(os.Stderr, "       dtypectl -schema")
		os.Exit(1)
	}

	if err := run(*manifestPath, *common, *list, *interactive); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(manifestPath, common string, listOnly, interactive bool) error {
	ctx := context.Background()

	provider := hostprov.New()
	reg := registry.New(provider)
	if err := reg.Import(capability.Version); err != nil {
		return err
	}

	if manifestPath != "" {
		if err := loadManifest(ctx, reg, manifestPath); err != nil {
			return err
		}
	}

	if listOnly {
		printClasses(provider.Classes())
		return nil
	}

	if common != "" {
		return resolveCommon(reg, common)
	}

	if interactive {
		return runInteractive(reg, provider.Classes())
	}
	return nil
}

func loadManifest(ctx context.Context, reg *registry.Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read manifest: %w", err)
	}
	m, err := manifest.Parse(data)
	if err != nil {
		return err
	}
	if m.ABIVersion != capability.Version {
		return fmt.Errorf("manifest %s targets ABI version %d, this build speaks %d",
			m.Name, m.ABIVersion, capability.Version)
	}

	var classes []*dtype.Class
	if m.Wasm != "" {
		ext, err := wasmext.LoadFile(ctx, filepath.Join(filepath.Dir(path), m.Wasm))
		if err != nil {
			return err
		}
		classes = ext.Classes()
		fmt.Printf("Extension: %s %s (wasm, abi %d)\n", m.Name, m.Version, ext.ABIVersion())
	} else {
		classes, err = m.Classes()
		if err != nil {
			return err
		}
		fmt.Printf("Extension: %s %s (declarative, abi %d)\n", m.Name, m.Version, m.ABIVersion)
	}

	for _, c := range classes {
		if err := reg.RegisterDType(c); err != nil {
			return err
		}
	}
	return nil
}

func printClasses(classes []*dtype.Class) {
	sort.Slice(classes, func(i, j int) bool {
		return classes[i].Name() < classes[j].Name()
	})

	fmt.Printf("Registered dtypes (%d):\n", len(classes))
	for _, c := range classes {
		size := fmt.Sprintf("%d bytes", c.ItemSize())
		if c.Abstract() {
			size = "abstract"
		}
		fmt.Printf("  %-14s %-8s %s\n", c.Name(), c.Kind(), size)
	}
}

func resolveCommon(reg *registry.Registry, spec string) error {
	names := strings.Split(spec, ",")
	classes := make([]*dtype.Class, 0, len(names))
	for _, name := range names {
		c, err := reg.LookupDType(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		classes = append(classes, c)
	}

	result, err := reg.PromoteSequence(classes)
	if err != nil {
		return err
	}
	fmt.Printf("%s -> %s\n", spec, result.Name())
	return nil
}
