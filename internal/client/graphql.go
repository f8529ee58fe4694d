package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hubgrip-io/ghapi/pkg/github"
)

// GraphQL posts a query to /graphql and decodes the data element into out.
// GraphQL errors arrive with a 200 status, so the envelope's errors array is
// checked before decoding.
func (c *Client) GraphQL(ctx context.Context, request *github.GraphQLRequest, out any) error {
	resp, err := c.http.Post(ctx, "/graphql", request)
	if err != nil {
		return err
	}

	var envelope github.GraphQLResponse

	err = json.Unmarshal(resp.Body, &envelope)
	if err != nil {
		return &github.DecodeError{Err: err, Body: resp.Body}
	}

	if len(envelope.Errors) > 0 {
		return fmt.Errorf("graphql: %w", &envelope.Errors[0])
	}

	if out == nil || len(envelope.Data) == 0 {
		return nil
	}

	err = json.Unmarshal(envelope.Data, out)
	if err != nil {
		return &github.DecodeError{Err: err, Body: envelope.Data}
	}

	return nil
}
