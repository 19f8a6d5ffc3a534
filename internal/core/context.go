package core

import "context"

type contextKey string

const ctxKeyClient contextKey = "client"

// Client identifies who selected a file or requested a submission.
// It only feeds log entries; nothing is persisted.
type Client struct {
	IPAddress string
	UserAgent string
}

// ContextWithClient attaches the requesting client to ctx.
func ContextWithClient(ctx context.Context, c Client) context.Context {
	return context.WithValue(ctx, ctxKeyClient, c)
}

// ClientFromContext returns the client attached to ctx, or the zero Client.
func ClientFromContext(ctx context.Context) Client {
	if c, ok := ctx.Value(ctxKeyClient).(Client); ok {
		return c
	}
	return Client{}
}

// logAttrs returns the client fields worth logging, skipping empty ones.
func (c Client) logAttrs() []any {
	var attrs []any
	if c.IPAddress != "" {
		attrs = append(attrs, "client_ip", c.IPAddress)
	}
	if c.UserAgent != "" {
		attrs = append(attrs, "user_agent", c.UserAgent)
	}
	return attrs
}
