package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Top-level YAML config key names used for shallow merge.
const (
	keySchemaVersion = "schema_version"
	keyLogging       = "logging"
	keyGesture       = "gesture"
	keyPull          = "pull"
	keyVirtual       = "virtual"
	keyVisibility    = "visibility"
	keyPerf          = "perf"
)

// knownTopLevelKeys lists the YAML keys that correspond to exported Config fields.
// Keys not in this list are silently ignored during merge.
//
//nolint:gochecknoglobals // Compile-time constant lookup table.
var knownTopLevelKeys = map[string]bool{
	keySchemaVersion: true,
	keyLogging:       true,
	keyGesture:       true,
	keyPull:          true,
	keyVirtual:       true,
	keyVisibility:    true,
	keyPerf:          true,
}

// ShallowMergeYAML loads a YAML file and merges its top-level keys onto
// the target Config. Keys present in the overlay replace entire sections
// in the target. Keys absent in the overlay are left unchanged.
func ShallowMergeYAML(target *Config, overlayPath string) error {
	if target == nil {
		return errors.New("nil target *Config in ShallowMergeYAML")
	}

	data, err := os.ReadFile(overlayPath)
	if err != nil {
		return fmt.Errorf("reading overlay file %s: %w", overlayPath, err)
	}

	var overlay map[string]yaml.Node
	if err = yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("parsing overlay YAML from %s: %w", overlayPath, err)
	}

	// Empty or comment-only file: nothing to merge.
	if len(overlay) == 0 {
		return nil
	}

	for key, node := range overlay {
		if !knownTopLevelKeys[key] {
			continue
		}
		if err = decodeSection(target, key, &node); err != nil {
			return fmt.Errorf("applying overlay section %q: %w", key, err)
		}
	}

	return nil
}

// decodeSection decodes node into a fresh zero value of the section named
// key and assigns it, so the overlay replaces the whole section.
func decodeSection(target *Config, key string, node *yaml.Node) error {
	switch key {
	case keySchemaVersion:
		var v string
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.SchemaVersion = v
	case keyLogging:
		var v LoggingConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Logging = v
	case keyGesture:
		var v GestureConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Gesture = v
	case keyPull:
		var v PullConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Pull = v
	case keyVirtual:
		var v VirtualConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Virtual = v
	case keyVisibility:
		var v VisibilityConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Visibility = v
	case keyPerf:
		var v PerfConfig
		if err := node.Decode(&v); err != nil {
			return err
		}
		target.Perf = v
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
