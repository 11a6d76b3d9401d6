// Package verifier implements the layer validation handler: observe the
// sandbox's actual identity (interpreter version, architecture, importability
// and version of the expected module) and compare it against the identity the
// builder reported, producing a single SUCCESS/FAILED verdict.
package verifier

import (
	"context"
	"fmt"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/cfnres"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/model"
	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/pyruntime"
)

// NotAvailable stands in for any expected field the request omitted. The
// verifier tolerates partial expectations: comparing against "N/A" yields a
// descriptive mismatch instead of an abort.
const NotAvailable = "N/A"

// Module installation states as they appear in the verdict message.
const (
	StatusInstalled    = "INSTALLED"
	StatusNotInstalled = "NOT INSTALLED"
)

// Expectation is the identity the sandbox is supposed to have, as reported by
// the builder and threaded through the stack.
type Expectation struct {
	Package      string
	ImportName   string
	Version      string
	Runtime      string
	Architecture string
}

// Observation is what the sandbox actually looks like.
type Observation struct {
	Identity pyruntime.Identity
	Load     pyruntime.LoadResult
}

// Handler wires the verifier's collaborators.
type Handler struct {
	Probe  pyruntime.Introspector
	Loader pyruntime.Loader
	Sender cfnres.Sender
}

// Handle processes one custom resource request and sends exactly one
// terminal callback. Any internal fault is converted into a FAILED verdict
// carrying the fault's text; only the callback send itself may error out.
func (h *Handler) Handle(ctx context.Context, event cfnres.Event) error {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Event received.", "request_type", event.RequestType, "logical_id", event.LogicalResourceID)

	if event.RequestType == cfnres.RequestDelete {
		return h.Sender.Send(ctx, event, cfnres.StatusSuccess, model.EmptyVerifierData(), "")
	}

	verdict, err := h.verify(ctx, event)
	if err != nil {
		logger.Error("Validation errored.", "error", err)
		data := model.EmptyVerifierData()
		data["Status"] = model.VerdictFailed
		data["Message"] = err.Error()
		return h.Sender.Send(ctx, event, cfnres.StatusFailed, data, err.Error())
	}

	logger.Info("Validation complete.", "status", verdict.Status, "message", verdict.Message)

	status := cfnres.StatusSuccess
	reason := ""
	if verdict.Status != model.VerdictSuccess {
		status = cfnres.StatusFailed
		reason = verdict.Message
	}
	return h.Sender.Send(ctx, event, status, verdict.ResponseData(), reason)
}

// verify gathers the observation and evaluates it against the expectation.
func (h *Handler) verify(ctx context.Context, event cfnres.Event) (model.Verdict, error) {
	expected := parseExpectation(event.ResourceProperties)

	identity, err := h.Probe.Identity(ctx)
	if err != nil {
		return model.Verdict{}, err
	}

	load, err := h.Loader.Load(ctx, expected.ImportName)
	if err != nil {
		return model.Verdict{}, err
	}

	return Evaluate(expected, Observation{Identity: identity, Load: load}), nil
}

// parseExpectation reads the expected identity from the request. Absent
// fields become NotAvailable rather than failing: verification against an
// unknown expectation should report a mismatch, not abort.
func parseExpectation(props map[string]string) Expectation {
	get := func(key string) string {
		if v := props[key]; v != "" {
			return v
		}
		return NotAvailable
	}
	return Expectation{
		Package:      get("PackageName"),
		ImportName:   get("PackageImportName"),
		Version:      get("PackageVersion"),
		Runtime:      get("Runtime"),
		Architecture: get("Architecture"),
	}
}

// Evaluate computes the verdict as a pure function of the two identity
// tuples. SUCCESS requires all four dimensions to hold; any single mismatch
// fails, and the message always enumerates target-vs-current for every
// dimension so a failure is diagnosable from the message alone.
func Evaluate(expected Expectation, observed Observation) model.Verdict {
	installStatus := StatusNotInstalled
	installedVersion := StatusNotInstalled
	if observed.Load.Loaded {
		installStatus = StatusInstalled
		installedVersion = observed.Load.Version
	}

	status := model.VerdictFailed
	if observed.Load.Loaded &&
		installedVersion == expected.Version &&
		observed.Identity.Runtime == expected.Runtime &&
		observed.Identity.Architecture == expected.Architecture {
		status = model.VerdictSuccess
	}

	message := fmt.Sprintf(
		"Installation: Target: %s, Current: %s. "+
			"Version: Target: %s, Current: %s. "+
			"Runtime: Target: %s, Current: %s. "+
			"Architecture: Target: %s, Current: %s. ",
		expected.Package, installStatus,
		expected.Version, installedVersion,
		expected.Runtime, observed.Identity.Runtime,
		expected.Architecture, observed.Identity.Architecture,
	)

	return model.Verdict{
		Status:       status,
		Message:      message,
		Package:      expected.Package,
		Version:      installedVersion,
		Runtime:      observed.Identity.Runtime,
		Architecture: observed.Identity.Architecture,
	}
}
