package server

import (
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// StartPprofServer serves pprof on its own port. Only reachable internally
// or through an SSH tunnel.
func StartPprofServer(addr string, logger *zap.Logger) {
	pprofRouter := gin.New()
	pprof.Register(pprofRouter)

	go func() {
		logger.Info("Starting pprof server", zap.String("addr", addr))
		if err := pprofRouter.Run(addr); err != nil {
			logger.Fatal("Failed to start pprof server", zap.Error(err))
		}
	}()
}
