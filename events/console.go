package events

import (
	log "github.com/sirupsen/logrus"
)

// Console writes events to a logrus logger
type Console struct {
	logger *log.Logger
}

// NewConsole returns a console sink writing to logger
func NewConsole(logger *log.Logger) *Console {
	return &Console{logger: logger}
}

// Send implements Sink
func (c *Console) Send(e Event) {
	entry := log.NewEntry(c.logger).WithTime(e.Time)
	if e.Deployment != "" {
		entry = entry.WithFields(log.Fields{
			"deployment": e.Deployment,
			"project":    e.Project,
		})
	}
	entry.Info(e.Message)
}
