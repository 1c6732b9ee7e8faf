package trace

import (
	"log"

	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/memsim/cache"
)

// AccessLogger is a hook that prints cache hits, misses, and evictions.
type AccessLogger struct {
	sim.LogHookBase
}

// NewAccessLogger returns an AccessLogger that writes into the logger.
func NewAccessLogger(logger *log.Logger) *AccessLogger {
	h := new(AccessLogger)
	h.Logger = logger
	return h
}

// Func writes the access information into the logger.
func (h *AccessLogger) Func(ctx sim.HookCtx) {
	switch item := ctx.Item.(type) {
	case cache.AccessInfo:
		h.Logger.Printf("%s addr=0x%X tag=0x%X slot=%d",
			ctx.Pos.Name, item.Addr, item.Tag, item.Slot)
	case cache.EvictInfo:
		h.Logger.Printf("%s slot=%d old_tag=0x%X old_word=%d by=0x%X",
			ctx.Pos.Name, item.Slot, item.Tag, item.Word, item.Addr)
	}
}
