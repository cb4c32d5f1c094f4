// Package logging provides structured logging channels for LeadRelay
// operations, so account, upstream and delivery activity can be filtered
// independently.
package logging

import (
	"log/slog"
	"os"
	"sync"
)

// Channel represents a logical logging channel for different system components
type Channel string

const (
	ChannelSystem   Channel = "system"   // General system operations
	ChannelStartup  Channel = "startup"  // Application startup and initialization
	ChannelAccount  Channel = "account"  // Account store and token lifecycle
	ChannelUpstream Channel = "upstream" // Graph API calls
	ChannelExport   Channel = "export"   // Export/formatting operations
	ChannelEmail    Channel = "email"    // Email relay and delivery
	ChannelPerf     Channel = "performance"
)

// ChanneledLogger provides structured logging with multiple channels
type ChanneledLogger struct {
	channels map[Channel]*slog.Logger
	level    slog.Level
	mu       sync.RWMutex
}

// NewChanneledLogger creates a logger writing JSON lines to stdout, one
// named channel per component.
func NewChanneledLogger(level slog.Level) *ChanneledLogger {
	cl := &ChanneledLogger{
		channels: make(map[Channel]*slog.Logger),
		level:    level,
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	base := slog.New(handler)

	for _, ch := range []Channel{
		ChannelSystem, ChannelStartup, ChannelAccount,
		ChannelUpstream, ChannelExport, ChannelEmail, ChannelPerf,
	} {
		cl.channels[ch] = base.With("channel", string(ch))
	}

	return cl
}

func (cl *ChanneledLogger) channel(ch Channel) *slog.Logger {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	if logger, ok := cl.channels[ch]; ok {
		return logger
	}
	return cl.channels[ChannelSystem]
}

// System returns the general system channel
func (cl *ChanneledLogger) System() *slog.Logger { return cl.channel(ChannelSystem) }

// Startup returns the startup channel
func (cl *ChanneledLogger) Startup() *slog.Logger { return cl.channel(ChannelStartup) }

// Account returns the account/token channel
func (cl *ChanneledLogger) Account() *slog.Logger { return cl.channel(ChannelAccount) }

// Upstream returns the Graph API channel
func (cl *ChanneledLogger) Upstream() *slog.Logger { return cl.channel(ChannelUpstream) }

// Export returns the export/formatting channel
func (cl *ChanneledLogger) Export() *slog.Logger { return cl.channel(ChannelExport) }

// Email returns the email delivery channel
func (cl *ChanneledLogger) Email() *slog.Logger { return cl.channel(ChannelEmail) }

// Perf returns the performance channel
func (cl *ChanneledLogger) Perf() *slog.Logger { return cl.channel(ChannelPerf) }
