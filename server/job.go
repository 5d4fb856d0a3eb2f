package main

import (
	"context"
	"time"
)

const jobTimeout = time.Minute

// runJob refreshes the usage gauge from the store. The cluster job runs it on one node at a time.
func (p *Plugin) runJob() {
	if p.store == nil || p.metrics == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	total, err := p.store.CountUsage(ctx, nil)
	if err != nil {
		p.API.LogError("Failed to count usage", "error", err.Error())
		return
	}

	p.metrics.SetUsageEvents(total)
	p.API.LogInfo("Usage snapshot updated", "events", total)
}
