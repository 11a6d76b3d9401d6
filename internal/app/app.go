// Package app assembles the two handlers from their collaborators. All
// external clients are constructed here and injected, so the handler packages
// stay testable with fakes.
package app

import (
	"context"
	"net/http"
	"os"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/builder"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cfnres"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/config"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pip"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pypi"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pyruntime"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/store"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/verifier"
)

// Environment variables read at startup. All are optional.
const (
	EnvConfigPath  = "LAYER_CONFIG_PATH" // HCL enumeration file; compiled-in default otherwise
	EnvWorkRoot    = "LAYER_WORK_ROOT"   // staging root; system temp dir otherwise
	EnvRegistryURL = "LAYER_REGISTRY_URL"
	EnvInterpreter = "LAYER_PYTHON"
	EnvLayerRoot   = "LAYER_ROOT"
)

// Options overrides pieces of the default wiring; zero values mean "use the
// environment, then the built-in default". layerctl uses Sender to print the
// callback instead of delivering it.
type Options struct {
	ConfigPath  string
	WorkRoot    string
	RegistryURL string
	Sender      cfnres.Sender
}

// NewBuilderHandler wires a builder with the real registry, pip, and S3
// collaborators.
func NewBuilderHandler(ctx context.Context, opts Options) (*builder.Handler, error) {
	cfg, err := loadModel(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	httpClient := &http.Client{}

	sender := opts.Sender
	if sender == nil {
		sender = cfnres.NewHTTPSender(httpClient)
	}

	registryURL := opts.RegistryURL
	if registryURL == "" {
		registryURL = os.Getenv(EnvRegistryURL)
	}

	s3Store, err := store.NewS3Store(ctx)
	if err != nil {
		return nil, err
	}

	workRoot := opts.WorkRoot
	if workRoot == "" {
		workRoot = os.Getenv(EnvWorkRoot)
	}

	return &builder.Handler{
		Config:    cfg,
		Resolver:  pypi.NewClient(httpClient, registryURL),
		Installer: &pip.CommandInstaller{},
		Store:     s3Store,
		Sender:    sender,
		WorkRoot:  workRoot,
	}, nil
}

// NewVerifierHandler wires a verifier that probes the real interpreter and
// layer mount.
func NewVerifierHandler(ctx context.Context, opts Options) (*verifier.Handler, error) {
	cfg, err := loadModel(ctx, opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	sender := opts.Sender
	if sender == nil {
		sender = cfnres.NewHTTPSender(&http.Client{})
	}

	runtime := &pyruntime.PythonRuntime{
		Interpreter: os.Getenv(EnvInterpreter),
		LayerRoot:   os.Getenv(EnvLayerRoot),
		ArchAliases: cfg.ArchAliases,
	}

	return &verifier.Handler{
		Probe:  runtime,
		Loader: runtime,
		Sender: sender,
	}, nil
}

// loadModel resolves the enumeration config: explicit path, then the
// environment, then the compiled-in default.
func loadModel(ctx context.Context, path string) (*config.Model, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		ctxlog.FromContext(ctx).Debug("Using built-in layer configuration.")
		return config.Default(), nil
	}
	return config.Load(ctx, path)
}
