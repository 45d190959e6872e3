package rpc

import (
	"log/slog"

	middleware "github.com/vmkteam/zenrpc-middleware"
	"github.com/vmkteam/zenrpc/v2"

	"github.com/daniilsolovey/tourism-portal/internal/portal"
)

func New(logger *slog.Logger, readers map[portal.Collection]portal.Reader) *zenrpc.Server {
	rpcService := NewContentService(readers)
	rpcServer := zenrpc.NewServer(zenrpc.Options{ExposeSMD: true})
	rpcServer.Register("content", rpcService)
	rpcServer.Use(middleware.WithSLog(logger.InfoContext, "tourism-portal", nil))

	return rpcServer
}
