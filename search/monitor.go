package search

import (
	"github.com/rjj101202/appalti-knowledge/core"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	StrategySelected(strategy Strategy)
	Degraded(reason string)
	AfterRanking(matches []core.ChunkMatch)
	Finish(results []*core.Snippet)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                   {}
func (n *noopMonitor) StrategySelected(_ Strategy)      {}
func (n *noopMonitor) Degraded(_ string)                {}
func (n *noopMonitor) AfterRanking(_ []core.ChunkMatch) {}
func (n *noopMonitor) Finish(_ []*core.Snippet)         {}
