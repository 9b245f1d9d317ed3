package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/kroma-labs/stellate-go/delivery"
	"github.com/kroma-labs/stellate-go/httpclient"
	"github.com/kroma-labs/stellate-go/stellate"
)

var (
	errMissingSchemaIdentity = errors.New("service name and schema token are required")
	errInvalidSchemaFile     = errors.New("schema file is not valid JSON")
)

func newSchemaCmd(a *app) *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "Manage the schema known to Stellate",
	}

	var file string
	syncCmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload an introspection result",
		Long: `Upload the result of an introspection query to Stellate.

The file may hold the full query result ({"data": {"__schema": ...}}) or
only its data member. Use "-" to read from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.syncSchema(cmd.Context(), file, cmd.InOrStdin())
		},
	}
	syncCmd.Flags().StringVarP(&file, "file", "f", "", "Introspection JSON file, or - for stdin")
	_ = syncCmd.MarkFlagRequired("file")

	schemaCmd.AddCommand(syncCmd)
	return schemaCmd
}

func (a *app) syncSchema(ctx context.Context, file string, stdin io.Reader) error {
	if a.cfg.Service.ServiceName == "" || a.cfg.Service.SchemaToken == "" {
		return errMissingSchemaIdentity
	}

	var (
		doc []byte
		err error
	)
	if file == "-" {
		doc, err = io.ReadAll(stdin)
	} else {
		doc, err = os.ReadFile(file)
	}
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if !json.Valid(doc) {
		return errInvalidSchemaFile
	}

	sender := a.collectorSender(nil)
	client := stellate.New(a.cfg.Service,
		stellate.WithLogger(a.logger),
		stellate.WithBaseDomain(a.cfg.BaseDomain),
		stellate.WithSender(sender),
	)

	// Deliver inline so the exit status reflects the collector's answer.
	var sendErr error
	deliver := func(ctx context.Context, d delivery.Descriptor) error {
		resp, err := sender.Send(ctx, d)
		switch {
		case err != nil:
			sendErr = err
		case !resp.IsSuccess():
			sendErr = fmt.Errorf("%w: %d", delivery.ErrUnexpectedStatus, resp.StatusCode)
		}
		return sendErr
	}

	if err := client.SyncSchema(ctx, json.RawMessage(doc), deliver); err != nil {
		return err
	}
	if sendErr != nil {
		return sendErr
	}

	a.logger.Info().
		Str("service", a.cfg.Service.ServiceName).
		Str("url", client.SchemaURL()).
		Msg("schema synced")
	return nil
}

// collectorSender returns the injected sender or a configured HTTP client.
func (a *app) collectorSender(opts []httpclient.Option) delivery.Sender {
	if a.sender != nil {
		return a.sender
	}
	base := []httpclient.Option{
		httpclient.WithServiceName("stellate-cli"),
		httpclient.WithUserAgent(stellate.UserAgent),
		httpclient.WithLogger(a.logger),
	}
	if opts == nil {
		opts = a.cfg.HTTP.httpOptions(nil)
	}
	return httpclient.New(append(base, opts...)...)
}
