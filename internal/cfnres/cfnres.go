// Package cfnres implements the CloudFormation custom resource callback
// protocol: the inbound event shape and the single terminal response each
// handler must deliver by PUTting a JSON document to the event's pre-signed
// ResponseURL.
package cfnres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/aws-samples/aws-lambda-layer-deployment-template/internal/ctxlog"
)

// Status is the terminal verdict reported to CloudFormation.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Request type values CloudFormation sends for stack lifecycle events.
const (
	RequestCreate = "Create"
	RequestUpdate = "Update"
	RequestDelete = "Delete"
)

// Event is the inbound custom resource request. ResourceProperties carries
// the handler-specific key/value configuration declared in the template.
type Event struct {
	RequestType        string            `json:"RequestType"`
	ResponseURL        string            `json:"ResponseURL"`
	StackID            string            `json:"StackId"`
	RequestID          string            `json:"RequestId"`
	LogicalResourceID  string            `json:"LogicalResourceId"`
	PhysicalResourceID string            `json:"PhysicalResourceId"`
	ResourceProperties map[string]string `json:"ResourceProperties"`
}

// response is the JSON document CloudFormation expects at the ResponseURL.
type response struct {
	Status             Status            `json:"Status"`
	Reason             string            `json:"Reason"`
	PhysicalResourceID string            `json:"PhysicalResourceId"`
	StackID            string            `json:"StackId"`
	RequestID          string            `json:"RequestId"`
	LogicalResourceID  string            `json:"LogicalResourceId"`
	Data               map[string]string `json:"Data"`
}

// Sender delivers the one terminal callback for a request. Implementations
// must not retry: a transport fault here is allowed to surface to the Lambda
// runtime, where the orchestrator's own timeout bounds the damage.
type Sender interface {
	Send(ctx context.Context, event Event, status Status, data map[string]string, reason string) error
}

// HTTPSender PUTs the response document to the event's pre-signed
// ResponseURL.
type HTTPSender struct {
	Client *http.Client
}

// NewHTTPSender returns an HTTPSender using the given client, or
// http.DefaultClient when nil.
func NewHTTPSender(client *http.Client) *HTTPSender {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSender{Client: client}
}

// Send implements Sender.
func (s *HTTPSender) Send(ctx context.Context, event Event, status Status, data map[string]string, reason string) error {
	logger := ctxlog.FromContext(ctx)

	body, err := json.Marshal(response{
		Status:             status,
		Reason:             reason,
		PhysicalResourceID: physicalResourceID(event),
		StackID:            event.StackID,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
		Data:               data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode callback response: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, event.ResponseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create callback request: %w", err)
	}
	// The pre-signed URL is signed with an empty Content-Type; setting any
	// real value invalidates the signature.
	req.Header.Set("Content-Type", "")
	req.ContentLength = int64(len(body))

	logger.Info("Sending callback response.", "status", status, "size", len(body))

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver callback response: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("callback delivery failed with status: %s", resp.Status)
	}

	logger.Info("Callback delivered.", "status", status)
	return nil
}

// physicalResourceID keeps the ID stable across updates when CloudFormation
// already assigned one, and otherwise falls back to the log stream name the
// way cfn-response does.
func physicalResourceID(event Event) string {
	if event.PhysicalResourceID != "" {
		return event.PhysicalResourceID
	}
	if stream := os.Getenv("AWS_LAMBDA_LOG_STREAM_NAME"); stream != "" {
		return stream
	}
	return "layer-" + event.LogicalResourceID
}

// WriterSender prints the response document instead of delivering it. It
// backs layerctl, which runs the pipelines without a CloudFormation stack.
type WriterSender struct {
	W io.Writer
}

// Send implements Sender by writing indented JSON to the writer.
func (s *WriterSender) Send(_ context.Context, event Event, status Status, data map[string]string, reason string) error {
	doc := response{
		Status:             status,
		Reason:             reason,
		PhysicalResourceID: physicalResourceID(event),
		StackID:            event.StackID,
		RequestID:          event.RequestID,
		LogicalResourceID:  event.LogicalResourceID,
		Data:               data,
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(s.W, string(out))
	return err
}
