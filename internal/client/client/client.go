package client

import (
	"context"

	"github.com/dmitrijs2005/logkeeper/internal/api"
)

type Client interface {
	List(ctx context.Context) Envelope[[]api.Record]
	Create(ctx context.Context, owner, logText string) Envelope[api.Record]
	Update(ctx context.Context, id, owner, logText string) Envelope[api.Record]
	Delete(ctx context.Context, id string) Envelope[api.Record]
	Health(ctx context.Context) Envelope[struct{}]
	Export(ctx context.Context) Envelope[api.Export]
}
