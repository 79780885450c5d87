//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"
)

const sampleRulesPath = "rules.yaml"

const sampleDocument = `components:
  Button:
    render: {host: button, props: {onClick: $onPress}, children: $title}
  Toolbar:
    render:
      fragment:
        - {component: Button, props: {title: Add Item, onPress: add}}
        - {component: Button, props: {title: Delete Item, onPress: delete, destructive: true}}
tree:
  - {component: Toolbar}
  - {host: span, children: [{component: Button, props: {title: Styling only}}]}
`

const sampleRules = `max_depth: 4
default: continue
rules:
  - match: {component: Button}
    action: record
    fields: {label: title, onPress: onPress, destructive: destructive}
  - match: {host: span}
    action: discard
`

func writeSample() error {
	files := map[string]string{
		filepath.Join("documents", "toolbar.yaml"): sampleDocument,
		sampleRulesPath: sampleRules,
	}
	for path, content := range files {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Println("Wrote", path)
	}
	return nil
}
