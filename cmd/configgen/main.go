package main

import (
	"flag"
	"log"

	"github.com/danmuck/fieldmux/internal/config"
)

const defaultPath = "cmd/fieldmuxctl/config.toml"

func main() {
	kind := flag.String("kind", "opcode", "template kind: opcode|passthrough")
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	if *validate {
		cfg, err := config.LoadTable(*input)
		if err != nil {
			log.Fatal(err)
		}
		if _, err := config.BuildDefinition(cfg); err != nil {
			log.Fatal(err)
		}
		log.Printf("Validated table %q at %s (fields=%d callbacks=%d indices=%d)",
			cfg.Name, *input, len(cfg.Fields), len(cfg.Callbacks), len(cfg.Indices))
		return
	}

	if err := config.WriteTemplate(*output, *kind, *force); err != nil {
		log.Fatal(err)
	}
	log.Printf("Wrote %s config template to %s", *kind, *output)
}
