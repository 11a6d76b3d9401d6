package config

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

// fileRoot is the decode target for a config file. The alias map is kept as a
// raw expression so it can be evaluated and walked as a cty object below.
type fileRoot struct {
	Packages      []string       `hcl:"packages"`
	Runtimes      []string       `hcl:"runtimes,optional"`
	Architectures []string       `hcl:"architectures,optional"`
	ArchAliases   hcl.Expression `hcl:"architecture_aliases,optional"`
}

// Load parses an HCL config file into a Model. Attributes the file omits keep
// their compiled-in defaults, so a minimal file only lists packages.
func Load(ctx context.Context, path string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading layer configuration.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, diags)
	}

	return decode(file.Body)
}

// LoadBytes parses in-memory HCL, for tests and embedded defaults.
func LoadBytes(src []byte, filename string) (*Model, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse config %s: %w", filename, diags)
	}
	return decode(file.Body)
}

func decode(body hcl.Body) (*Model, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode config: %w", diags)
	}

	model := Default()
	model.Packages = root.Packages
	if root.Runtimes != nil {
		model.Runtimes = root.Runtimes
	}
	if root.Architectures != nil {
		model.Architectures = root.Architectures
	}

	if root.ArchAliases != nil {
		aliases, err := decodeAliases(root.ArchAliases)
		if err != nil {
			return nil, err
		}
		if aliases != nil {
			model.ArchAliases = aliases
		}
	}

	if len(model.Packages) == 0 {
		return nil, fmt.Errorf("config must list at least one supported package")
	}
	return model, nil
}

// decodeAliases evaluates the architecture_aliases expression into a string
// map. A null expression (attribute absent) yields nil, keeping the default.
func decodeAliases(expr hcl.Expression) (map[string]string, error) {
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to evaluate architecture_aliases: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("architecture_aliases must be a map of strings")
	}

	aliases := make(map[string]string)
	for it := val.ElementIterator(); it.Next(); {
		k, v := it.Element()
		if k.Type() != cty.String || v.Type() != cty.String {
			return nil, fmt.Errorf("architecture_aliases must map strings to strings")
		}
		aliases[k.AsString()] = v.AsString()
	}
	return aliases, nil
}
