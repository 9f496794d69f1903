package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Verifies that every setting of a dumped config (geyser-sink --dump_config) is documented in the
// example config. Keys are compared case-insensitively as viper lowercases them.
func main() {
	exampleFile := flag.String("example", "config/example_config.yaml", "documented example config")
	dumpedFile := flag.String("dumped", "config/dumped_config.yaml", "config dumped by geyser-sink")
	flag.Parse()

	example, err := readYaml(*exampleFile)
	if err != nil {
		log.Fatal(err)
	}

	dumped, err := readYaml(*dumpedFile)
	if err != nil {
		log.Fatal(err)
	}

	missing := missingKeys(lowercaseKeys(example), lowercaseKeys(dumped), "")
	if len(missing) > 0 {
		log.Fatalf("keys missing in %s: %s", *exampleFile, strings.Join(missing, ", "))
	}
}

func readYaml(file string) (map[string]any, error) {
	content, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	m := map[string]any{}
	err = yaml.Unmarshal(content, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}

	return m, nil
}

func lowercaseKeys(m map[string]any) map[string]any {
	lowercase := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			v = lowercaseKeys(nested)
		}
		lowercase[strings.ToLower(k)] = v
	}

	return lowercase
}

func missingKeys(example map[string]any, dumped map[string]any, prefix string) []string {
	var missing []string

	for key, value := range dumped {
		exampleValue, found := example[key]
		if !found {
			missing = append(missing, prefix+key)
			continue
		}

		nestedDumped, ok := value.(map[string]any)
		if !ok {
			continue
		}

		// an attribute map like tracing.attributes may be documented with other keys
		nestedExample, ok := exampleValue.(map[string]any)
		if !ok {
			continue
		}

		missing = append(missing, missingKeys(nestedExample, nestedDumped, prefix+key+".")...)
	}

	sort.Strings(missing)

	return missing
}
