package builder

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/archive"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cfnres"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/config"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/model"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pip"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pypi"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/staging"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/store"
)

// Handler wires the builder pipeline's collaborators. All fields must be set;
// construction lives in internal/app.
type Handler struct {
	Config    *config.Model
	Resolver  pypi.Resolver
	Installer pip.Installer
	Store     store.ObjectStore
	Sender    cfnres.Sender

	// WorkRoot is the ephemeral root for staging. Empty means the system
	// temp directory.
	WorkRoot string
}

// Handle processes one custom resource request and sends exactly one
// terminal callback. The callback send itself is not retried and its error is
// returned uncaught; a stuck request is bounded by the stack's own timeout.
func (h *Handler) Handle(ctx context.Context, event cfnres.Event) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Event received.", "request_type", event.RequestType, "logical_id", event.LogicalResourceID)

	// Teardown is declarative removal of the resource record, not of the
	// published bytes; artifact retention is the bucket's policy.
	if event.RequestType == cfnres.RequestDelete {
		return h.Sender.Send(ctx, event, cfnres.StatusSuccess, model.EmptyBuilderData(), "")
	}

	record, err := h.build(ctx, event)
	if err != nil {
		reason := fmt.Sprintf("lambda layer creation failed: %v", err)
		logger.Error("Layer creation failed.", "error", err)
		return h.Sender.Send(ctx, event, cfnres.StatusFailed, model.EmptyBuilderData(), reason)
	}

	logger.Info("Layer published.", "location", record.Location, "version", record.Version)
	return h.Sender.Send(ctx, event, cfnres.StatusSuccess, record.ResponseData(), "")
}

// build runs the fallible part of the pipeline: validate, resolve, stage,
// archive, publish.
func (h *Handler) build(ctx context.Context, event cfnres.Event) (model.IdentityRecord, error) {
	logger := ctxlog.FromContext(ctx)

	req, err := h.parseRequest(event.ResourceProperties)
	if err != nil {
		return model.IdentityRecord{}, err
	}

	version, err := h.Resolver.LatestVersion(ctx, req.PackageName)
	if err != nil {
		return model.IdentityRecord{}, err
	}

	importName := model.ImportName(req.PackageName)
	logger.Info("Resolved package identity.", "package", req.PackageName, "version", version, "import_name", importName)

	archivePath, err := h.stage(ctx, req, version)
	if err != nil {
		return model.IdentityRecord{}, err
	}

	key, err := h.publish(ctx, req, archivePath)
	if err != nil {
		return model.IdentityRecord{}, err
	}

	return model.IdentityRecord{
		PackageName:  req.PackageName,
		ImportName:   importName,
		Version:      version,
		Runtime:      req.Runtime,
		Architecture: req.Architecture,
		Bucket:       req.BucketName,
		Key:          key,
		Location:     fmt.Sprintf("s3://%s/%s", req.BucketName, key),
	}, nil
}

// parseRequest validates the resource properties. Missing fields are
// aggregated into one message rather than reported one at a time.
func (h *Handler) parseRequest(props map[string]string) (model.PackageRequest, error) {
	req := model.PackageRequest{
		BucketName:   props["BucketName"],
		PackageName:  props["PackageName"],
		Runtime:      props["Runtime"],
		Architecture: props["Architecture"],
	}

	var missing []string
	for _, field := range []struct{ name, value string }{
		{"BucketName", req.BucketName},
		{"PackageName", req.PackageName},
		{"Runtime", req.Runtime},
		{"Architecture", req.Architecture},
	} {
		if field.value == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return model.PackageRequest{}, fmt.Errorf("missing required properties: %s", strings.Join(missing, ", "))
	}

	if !h.Config.SupportsPackage(req.PackageName) {
		return model.PackageRequest{}, fmt.Errorf("package '%s' is not supported. Supported packages: %s",
			req.PackageName, h.Config.SupportedPackages())
	}
	if !h.Config.SupportsRuntime(req.Runtime) {
		return model.PackageRequest{}, fmt.Errorf("runtime '%s' is not supported. Supported runtimes: %s",
			req.Runtime, strings.Join(h.Config.Runtimes, ", "))
	}
	if !h.Config.SupportsArchitecture(req.Architecture) {
		return model.PackageRequest{}, fmt.Errorf("architecture '%s' is not supported. Supported architectures: %s",
			req.Architecture, strings.Join(h.Config.Architectures, ", "))
	}
	return req, nil
}

// stage installs the pinned version into the scratch target, promotes it
// into the layer layout, and archives the result. The staging subtrees are
// removed whether or not any step succeeds; only the archive file survives,
// for publish to consume.
func (h *Handler) stage(ctx context.Context, req model.PackageRequest, version string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	wd := staging.New(h.WorkRoot)
	defer wd.Cleanup(ctx)

	if err := wd.PreClean(ctx); err != nil {
		return "", err
	}
	if err := h.Installer.Install(ctx, req.PackageName, version, wd.ScratchDir()); err != nil {
		return "", err
	}
	if err := wd.Promote(req.Runtime); err != nil {
		return "", err
	}

	// A failed archiving step can leave a partial file behind; the archive
	// removal in publish is never reached on this path.
	archivePath := wd.ArchivePath(req.PackageName, req.Runtime, version)
	if err := archive.ZipTree(wd.LayerDir(), staging.LayerFolder, archivePath); err != nil {
		if rmErr := os.Remove(archivePath); rmErr != nil && !os.IsNotExist(rmErr) {
			logger.Error("Failed to remove partial archive.", "path", archivePath, "error", rmErr)
		}
		return "", err
	}

	logger.Info("Layer package created.", "path", archivePath)
	return archivePath, nil
}

// publish uploads the archive and removes the local file no matter how the
// upload ends.
func (h *Handler) publish(ctx context.Context, req model.PackageRequest, archivePath string) (string, error) {
	logger := ctxlog.FromContext(ctx)

	defer func() {
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			logger.Error("Failed to remove local archive.", "path", archivePath, "error", err)
			return
		}
		logger.Info("Cleaned up local archive.", "path", archivePath)
	}()

	key := model.LayerKey(req.Runtime, req.Architecture, req.PackageName)
	if err := h.Store.Upload(ctx, req.BucketName, key, archivePath); err != nil {
		return "", err
	}
	return key, nil
}
