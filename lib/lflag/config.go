package lflag

import (
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

var configFile = flag.String("configFile", "", "Optional path to YAML file with default values for command-line flags. "+
	"Values set explicitly via command-line take priority over values from this file")

// applyConfigFile sets defaults for flags that weren't set on the command line
// from the YAML file pointed to by -configFile.
func applyConfigFile(fs *flag.FlagSet) {
	if *configFile == "" {
		return
	}
	data, err := os.ReadFile(*configFile)
	if err != nil {
		log.Fatalf("cannot read -configFile=%q: %s", *configFile, err)
	}
	data = []byte(ReplaceString(string(data)))
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		log.Fatalf("cannot parse -configFile=%q: %s", *configFile, err)
	}

	explicitlySet := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		explicitlySet[f.Name] = true
	})
	for name, value := range m {
		if explicitlySet[name] {
			continue
		}
		if fs.Lookup(name) == nil {
			log.Fatalf("unknown flag %q in -configFile=%q", name, *configFile)
		}
		s := ""
		if items, ok := value.([]any); ok {
			// array flags accept comma-separated values
			for i, item := range items {
				if i > 0 {
					s += ","
				}
				s += fmt.Sprint(item)
			}
		} else {
			s = fmt.Sprint(value)
		}
		if err := fs.Set(name, s); err != nil {
			log.Fatalf("cannot set flag %q from -configFile=%q: %s", name, *configFile, err)
		}
	}
}
