package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hokaccha/go-prettyjson"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/zoelang/zoe/object"
)

var outputFormatsCompletion = []string{"json", "text", "yaml"}

func getOutput(result object.Object, format string) (string, error) {
	switch strings.ToLower(format) {
	case "":
		// Nothing is printed for a nil result.
		if result == object.Nil {
			return "", nil
		}
		return result.Inspect(), nil
	case "text":
		return result.Inspect(), nil
	case "json":
		output, err := getOutputJSON(result.Interface())
		if err != nil {
			return "", err
		}
		return string(output), nil
	case "yaml":
		output, err := yaml.Marshal(result.Interface())
		if err != nil {
			return "", err
		}
		return strings.TrimSuffix(string(output), "\n"), nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

func getOutputJSON(value interface{}) ([]byte, error) {
	if viper.GetBool("no-color") {
		return json.MarshalIndent(value, "", "  ")
	}
	return prettyjson.Marshal(value)
}
