package stellate

import (
	"context"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/kroma-labs/stellate-go/delivery"
)

// IntrospectFunc produces the introspection result of a schema, as
// returned by executing the standard introspection query.
type IntrospectFunc func(ctx context.Context) (any, error)

// schemaEnvelope is the /schema request body.
type schemaEnvelope struct {
	Schema json.RawMessage `json:"schema"`
}

// SyncSchema uploads an introspection document to Stellate.
//
// doc may be any JSON serializable value, including json.RawMessage or
// []byte holding JSON. If it is an object with a "data" member, as
// introspection query results are, that member is sent; otherwise doc is
// sent as is.
//
// Missing service name or schema token logs a warning and does nothing.
// Delivery failures are logged. The returned error is non-nil only when
// doc cannot be serialized.
func (c *Client) SyncSchema(ctx context.Context, doc any, deliver delivery.DeliverFunc) error {
	if !c.canSyncSchema() {
		return nil
	}
	return c.syncSchema(ctx, doc, deliver)
}

// SyncSchemaFrom calls introspect and uploads its result like SyncSchema.
// introspect is not called when the identity is incomplete.
func (c *Client) SyncSchemaFrom(ctx context.Context, introspect IntrospectFunc, deliver delivery.DeliverFunc) error {
	if !c.canSyncSchema() {
		return nil
	}

	doc, err := introspect(ctx)
	if err != nil {
		return fmt.Errorf("introspect schema: %w", err)
	}
	return c.syncSchema(ctx, doc, deliver)
}

func (c *Client) canSyncSchema() bool {
	if c.identity.ServiceName == "" {
		c.logger.Warn().Msg(msgSchemaMissingService)
		return false
	}
	if c.identity.SchemaToken == "" {
		c.logger.Warn().Str("service", c.identity.ServiceName).Msg(msgSchemaMissingToken)
		return false
	}
	return true
}

func (c *Client) syncSchema(ctx context.Context, doc any, deliver delivery.DeliverFunc) error {
	raw, err := introspectionData(doc)
	if err != nil {
		return err
	}

	_, err = c.dispatcher.Dispatch(ctx, c.schemaTarget(), schemaEnvelope{Schema: raw}, deliver)
	return err
}

// introspectionData serializes doc and unwraps its "data" member.
func introspectionData(doc any) (json.RawMessage, error) {
	var raw []byte
	switch v := doc.(type) {
	case json.RawMessage:
		raw = v
	case []byte:
		raw = v
	default:
		b, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("%w: schema: %w", ErrEncodePayload, err)
		}
		raw = b
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: schema: invalid JSON", ErrEncodePayload)
	}

	var result struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &result); err == nil && len(result.Data) > 0 {
		return result.Data, nil
	}
	return raw, nil
}
