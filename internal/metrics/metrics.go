// Package metrics holds the Prometheus collectors exposed on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// InvitationEvents counts invitation lifecycle transitions by event
	// (minted, revoked, accepted, extended).
	InvitationEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "standup",
		Name:      "invitation_events_total",
		Help:      "Invitation lifecycle transitions.",
	}, []string{"event"})

	// CollaboratorChanges counts rows written by collaborator reconciliation by op
	// (insert, update, delete).
	CollaboratorChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "standup",
		Name:      "collaborator_changes_total",
		Help:      "Collaborator rows written by reconciliation.",
	}, []string{"op"})

	// ProfileLookups counts identity provider profile fetches by outcome.
	ProfileLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "standup",
		Name:      "profile_lookups_total",
		Help:      "Identity provider profile lookups.",
	}, []string{"outcome"})
)
