package stellate

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/kroma-labs/stellate-go/fingerprint"
)

// ErrEncodePayload is returned when the variables or the execution result
// cannot be serialized to JSON.
var ErrEncodePayload = errors.New("stellate: encode payload")

// defaultMethod is reported when the operation carries no HTTP method.
const defaultMethod = http.MethodPost

// reportedStatusCode is sent for every execution. The collector derives
// failures from Errors.
const reportedStatusCode = http.StatusOK

// Payload is the telemetry record for one execution.
type Payload struct {
	Operation     string          `json:"operation"`
	VariableHash  uint32          `json:"variableHash"`
	Method        string          `json:"method"`
	Elapsed       int64           `json:"elapsed"`
	ResponseSize  int             `json:"responseSize"`
	ResponseHash  uint32          `json:"responseHash"`
	StatusCode    int             `json:"statusCode"`
	OperationName *string         `json:"operationName"`
	Errors        json.RawMessage `json:"errors,omitempty"`

	// Client is merged into the top level when headers were supplied.
	Client *ClientContext `json:"-"`
}

// payloadFields is Payload without its MarshalJSON method.
type payloadFields Payload

// MarshalJSON flattens Client into the record, or leaves its fields out
// entirely when Client is nil.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Client == nil {
		return json.MarshalNoEscape(payloadFields(p))
	}
	return json.MarshalNoEscape(struct {
		payloadFields
		ClientContext
	}{
		payloadFields: payloadFields(p),
		ClientContext: *p.Client,
	})
}

// BuildPayload assembles the telemetry record for an execution of req that
// produced result in elapsed time.
//
// The response size is the byte length of the serialized result, and both
// hashes run over the serialized bytes. A top-level "errors" array in the
// serialized result is copied verbatim.
func BuildPayload(req Request, result any, elapsed time.Duration) (Payload, error) {
	variables, err := json.MarshalNoEscape(req.Variables)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: variables: %w", ErrEncodePayload, err)
	}

	response, err := json.MarshalNoEscape(result)
	if err != nil {
		return Payload{}, fmt.Errorf("%w: result: %w", ErrEncodePayload, err)
	}

	method := req.Method
	if method == "" {
		method = defaultMethod
	}

	p := Payload{
		Operation:     req.Query,
		VariableHash:  fingerprint.Sum32(variables),
		Method:        method,
		Elapsed:       roundMillis(elapsed),
		ResponseSize:  len(response),
		ResponseHash:  fingerprint.Sum32(response),
		StatusCode:    reportedStatusCode,
		OperationName: optional(req.OperationName),
		Errors:        resultErrors(response),
	}

	if req.Headers != nil {
		p.Client = ExtractClientContext(req.Headers)
	}

	return p, nil
}

// resultErrors returns the top-level "errors" member of a serialized
// result if it is an array.
func resultErrors(response []byte) json.RawMessage {
	var envelope struct {
		Errors json.RawMessage `json:"errors"`
	}
	if err := json.Unmarshal(response, &envelope); err != nil {
		return nil
	}
	for _, c := range envelope.Errors {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '[':
			return envelope.Errors
		}
		return nil
	}
	return nil
}

func roundMillis(d time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(time.Millisecond)))
}
